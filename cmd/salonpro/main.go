package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/auth"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/service"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/infrastructure/mysql"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/transport"
)

const appID = "salonpro"

type config struct {
	ServeRESTAddress string `envconfig:"serve_rest_address" default:":8080"`
	DatabaseDSN      string `envconfig:"database_dsn" required:"true"`

	// no fallback values for the secret and the credential pair
	JWTSecret     string `envconfig:"jwt_secret" required:"true"`
	AdminUsername string `envconfig:"admin_username" required:"true"`
	AdminPassword string `envconfig:"admin_password" required:"true"`

	UploadDir       string `envconfig:"upload_dir" default:"public/uploads/products"`
	PublicOrderList bool   `envconfig:"public_order_list" default:"false"`
}

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:  appID,
		Usage: "exhibition equipment storefront and admin backend",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: runMigrations,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal(appID)
	}
}

func parseConfig() (*config, error) {
	cfg := &config{}
	if err := envconfig.Process(appID, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse configuration")
	}
	return cfg, nil
}

func serve(_ *cli.Context) error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	db, err := mysql.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := mysql.Migrate(db); err != nil {
		return err
	}

	produitRepo := mysql.NewProduitRepository(db)
	commandeRepo := mysql.NewCommandeRepository(db)

	handler := transport.NewHandler(
		service.NewCatalogService(produitRepo),
		service.NewCommandeService(commandeRepo, produitRepo),
		auth.NewService(auth.Config{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
			Secret:   cfg.JWTSecret,
		}),
		transport.Config{
			UploadDir:       cfg.UploadDir,
			PublicOrderList: cfg.PublicOrderList,
		},
	)

	server := &http.Server{
		Addr:    cfg.ServeRESTAddress,
		Handler: transport.Router(handler),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.WithField("address", cfg.ServeRESTAddress).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "failed to start server")
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return server.Shutdown(context.Background())
	})

	return group.Wait()
}

func runMigrations(_ *cli.Context) error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	db, err := mysql.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := mysql.Migrate(db); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}
