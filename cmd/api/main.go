package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"nftwallet/internal/api/handler"
	"nftwallet/internal/interfaces"
	"nftwallet/internal/ledger"
	"nftwallet/internal/pkg/caching"
	"nftwallet/internal/pkg/limiter"
	"nftwallet/internal/pkg/locker"
	"nftwallet/internal/pkg/pinning"
	"nftwallet/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	vs, err := env.EnvsRequired(
		"JWT_SECRET",
		"DB_DSN",
		"WALLET_ENCRYPTION_KEY",
		"ALGOD_SERVER",
		"INDEXER_SERVER",
	)
	if err != nil {
		log.Fatal(err)
	}

	container := NewContainer(vs)

	app := &cli.App{
		Name: "api",
		Commands: []*cli.Command{
			commandServer(container),
			commandTx(container),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandServer(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "start the web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "0.0.0.0:8080",
				Usage: "serve address",
			},
		},
		Action: func(c *cli.Context) error {
			vs := do.MustInvokeNamed[map[string]string](container, "envs")

			// wallet custody must not start without its key
			if _, err := do.Invoke[*services.ServiceWallet](container); err != nil {
				return err
			}

			router, err := handler.New(&handler.Config{
				Container: container,
				Mode:      vs["API_MODE"],
				Origins:   strings.Split(vs["API_ORIGINS"], ","),
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:    c.String("addr"),
				Handler: router,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errWg, errCtx := errgroup.WithContext(ctx)

			errWg.Go(func() error {
				log.Printf("ListenAndServe: %s (%s)\n", c.String("addr"), vs["API_MODE"])
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			})

			errWg.Go(func() error {
				<-errCtx.Done()
				return srv.Shutdown(context.TODO())
			})

			return errWg.Wait()
		},
	}
}

// commandTx looks up a transaction that was submitted but not confirmed in time.
func commandTx(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:      "tx",
		Usage:     "look up a transaction by id",
		ArgsUsage: "<tx-id>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "wait",
				Value: 0,
				Usage: "rounds to wait for a pending transaction before querying the indexer",
			},
		},
		Action: func(c *cli.Context) error {
			txID := c.Args().First()
			if txID == "" {
				return cli.Exit("missing tx id", 1)
			}

			client, err := do.Invoke[*ledger.Client](container)
			if err != nil {
				return err
			}

			if rounds := c.Int("wait"); rounds > 0 {
				confirmation, err := client.WaitForConfirmation(c.Context, txID, rounds)
				if err != nil {
					return err
				}
				log.Printf("tx %s confirmed at round %d (asset %d)", txID, confirmation.ConfirmedRound, confirmation.AssetIndex)
			}

			tx, err := client.GetTransaction(c.Context, txID)
			if err != nil {
				return err
			}
			log.Printf("tx %s: type=%s sender=%s round=%d", txID, tx.Transaction.Type, tx.Transaction.Sender, tx.Transaction.ConfirmedRound)
			return nil
		},
	}
}

func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()
	for _, key := range []string{
		"API_MODE",
		"API_ORIGINS",
		"ALGOD_TOKEN",
		"INDEXER_TOKEN",
		"PINATA_API_KEY",
		"PINATA_SECRET_API_KEY",
		"PINATA_API_URL",
		"PINATA_GATEWAY_URL",
		services.CONFIG_CONFIRMATION_ROUNDS,
		services.CONFIG_MINT_RATE_PER_MINUTE,
	} {
		vs[key] = os.Getenv(key)
	}

	if vs["API_MODE"] == "" {
		vs["API_MODE"] = "production"
	}
	if vs["API_ORIGINS"] == "" {
		vs["API_ORIGINS"] = "*"
	}

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		opts := []pgdriver.Option{pgdriver.WithDSN(vs["DB_DSN"])}
		if password := os.Getenv("DB_PASSWORD"); password != "" {
			opts = append(opts, pgdriver.WithPassword(password))
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))

		db := bun.NewDB(sqldb, pgdialect.New())
		return db, nil
	})

	do.ProvideNamed(injector, "redis-cache", func(i *do.Injector) (redis.UniversalClient, error) {
		return initRedis("CLUSTER_REDIS_CACHE", "REDIS_CACHE")
	})

	do.ProvideNamed(injector, "redis-limiter", func(i *do.Injector) (redis.UniversalClient, error) {
		return initRedis("CLUSTER_REDIS_LIMITER", "REDIS_LIMITER")
	})

	do.ProvideNamed(injector, "redis-mutex", func(i *do.Injector) (redis.UniversalClient, error) {
		return initRedis("CLUSTER_REDIS_MUTEX", "REDIS_MUTEX")
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Locker, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-mutex")
		if err != nil {
			return nil, err
		}

		pool := goredis.NewPool(dbRedis)
		return locker.NewRedsync(redsync.New(pool), services.LOCK_TTL_CREATE_WALLET), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ledger.Client, error) {
		return ledger.New(ledger.Config{
			AlgodServer:   vs["ALGOD_SERVER"],
			AlgodToken:    vs["ALGOD_TOKEN"],
			IndexerServer: vs["INDEXER_SERVER"],
			IndexerToken:  vs["INDEXER_TOKEN"],
		})
	})

	do.Provide(injector, func(i *do.Injector) (pinning.Uploader, error) {
		return pinning.NewPinata(pinning.Config{
			APIKey:       vs["PINATA_API_KEY"],
			APISecretKey: vs["PINATA_SECRET_API_KEY"],
			APIURL:       vs["PINATA_API_URL"],
			GatewayURL:   vs["PINATA_GATEWAY_URL"],
		}), nil
	})

	do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
		return services.NewAuthentication(vs["JWT_SECRET"])
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceWallet, error) {
		return services.NewServiceWallet(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceAsset, error) {
		return services.NewServiceAsset(injector)
	})

	return injector
}

func initRedis(clusterKey, urlKey string) (redis.UniversalClient, error) {
	clusterURL := os.Getenv(clusterKey)
	if clusterURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClusterClient(clusterOpts), nil
	}
	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv(urlKey),
	})
}
