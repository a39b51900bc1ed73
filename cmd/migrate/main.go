package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"nftwallet/internal/datastore"
	"nftwallet/internal/ledger"
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
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandCheckHoldings(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			for _, create := range []func(context.Context, *bun.DB) error{
				datastore.CreateTableWallet,
				datastore.CreateTableAsset,
				datastore.CreateTableAssetTransaction,
			} {
				if err := create(ctx, db); err != nil {
					return err
				}
			}

			fmt.Println("Migration success")
			return nil
		},
	}
}

// commandCheckHoldings compares the assets recorded for an address with what
// the ledger says it holds.
func commandCheckHoldings() *cli.Command {
	return &cli.Command{
		Name:      "check-holdings",
		ArgsUsage: "<address>",
		Action: func(c *cli.Context) error {
			address := c.Args().First()
			if address == "" {
				return cli.Exit("missing address", 1)
			}

			vs, err := env.EnvsRequired("DB_DSN", "ALGOD_SERVER", "INDEXER_SERVER")
			if err != nil {
				return err
			}

			client, err := ledger.New(ledger.Config{
				AlgodServer:   vs["ALGOD_SERVER"],
				AlgodToken:    os.Getenv("ALGOD_TOKEN"),
				IndexerServer: vs["INDEXER_SERVER"],
				IndexerToken:  os.Getenv("INDEXER_TOKEN"),
			})
			if err != nil {
				return err
			}

			db, err := getDb()
			if err != nil {
				return err
			}

			ctx := c.Context
			exists, err := client.CheckAccountExists(ctx, address)
			if err != nil {
				return err
			}
			if !exists {
				fmt.Println("account not funded:", address)
			}

			held := map[uint64]bool{}
			if exists {
				holdings, err := client.GetAccountAssets(ctx, address)
				if err != nil {
					return err
				}
				for _, h := range holdings {
					if h.Amount > 0 {
						held[h.AssetId] = true
					}
				}
			}

			recorded, err := datastore.FindAssetsByOwner(ctx, db, address)
			if err != nil {
				return err
			}

			mismatches := 0
			for _, asset := range recorded {
				if held[asset.AssetID] {
					delete(held, asset.AssetID)
					continue
				}
				mismatches++
				fmt.Printf("recorded but not held: %d (%s)\n", asset.AssetID, asset.Name)
			}
			for assetID := range held {
				info, err := client.GetAssetInfo(ctx, assetID)
				if err != nil {
					fmt.Printf("held but not recorded: %d (%v)\n", assetID, err)
					mismatches++
					continue
				}
				if info.Params.Total != 1 || info.Params.Decimals != 0 {
					continue
				}
				mismatches++
				fmt.Printf("held but not recorded: %d (%s)\n", assetID, info.Params.Name)
			}

			fmt.Printf("%d recorded, %d mismatches\n", len(recorded), mismatches)
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}
	opts := []pgdriver.Option{pgdriver.WithDSN(dsn)}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		opts = append(opts, pgdriver.WithPassword(password))
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
