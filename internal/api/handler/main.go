package handler

import (
	"net/http"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"

	"nftwallet/internal/services"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())
	r.Use(echoprometheus.NewMiddleware("nftwallet"))

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", echoprometheus.NewHandler())

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.

		l := groupLedger{cfg.Container}
		routesAPIv1.GET("/status", l.Status)
		routesAPIv1.GET("/tx/:tx_id", l.Transaction)

		routesAPIv1Wallet := routesAPIv1.Group("/wallet")
		{
			w := groupWallet{cfg.Container}
			routesAPIv1Wallet.POST("", w.Create)
			routesAPIv1Wallet.GET("", w.Show)
			routesAPIv1Wallet.DELETE("", w.Deactivate)
			routesAPIv1Wallet.GET("/account", w.Account)
		}

		routesAPIv1NFT := routesAPIv1.Group("/nft")
		{
			n := groupNFT{cfg.Container}
			routesAPIv1NFT.POST("/mint", n.Mint)
			routesAPIv1NFT.GET("/mine", n.Mine)
			routesAPIv1NFT.GET("/market", n.Market)
			routesAPIv1NFT.GET("/:asset_id", n.Show)
			routesAPIv1NFT.POST("/:asset_id/transfer", n.Transfer)
			routesAPIv1NFT.POST("/:asset_id/list", n.List)
			routesAPIv1NFT.DELETE("/:asset_id/list", n.Unlist)
			routesAPIv1NFT.POST("/:asset_id/buy", n.Buy)
		}
	}

	return r, nil
}
