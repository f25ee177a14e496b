package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"kisansetu/config"
	"kisansetu/database"
	"kisansetu/pkg/ai"
	"kisansetu/pkg/calculator"
	calcCtrlImp "kisansetu/pkg/calculator/controllerImp"
	"kisansetu/pkg/calendar"
	calCtrlImp "kisansetu/pkg/calendar/controllerImp"
	chatCtrlImp "kisansetu/pkg/chat/controllerImp"
	chatRepoImp "kisansetu/pkg/chat/repositoryImp"
	chatSvcImp "kisansetu/pkg/chat/serviceImp"
	commCtrlImp "kisansetu/pkg/community/controllerImp"
	commRepoImp "kisansetu/pkg/community/repositoryImp"
	commSvcImp "kisansetu/pkg/community/serviceImp"
	"kisansetu/pkg/cropdata"
	"kisansetu/pkg/equipment"
	eqCtrlImp "kisansetu/pkg/equipment/controllerImp"
	eqRepoImp "kisansetu/pkg/equipment/repositoryImp"
	eqSvcImp "kisansetu/pkg/equipment/serviceImp"
	healthCtrlImp "kisansetu/pkg/health/controllerImp"
	"kisansetu/pkg/httperr"
	"kisansetu/pkg/i18n"
	i18nCtrlImp "kisansetu/pkg/i18n/controllerImp"
	"kisansetu/pkg/knowledge"
	kCtrlImp "kisansetu/pkg/knowledge/controllerImp"
	"kisansetu/pkg/knowledge/embedder"
	kRepoImp "kisansetu/pkg/knowledge/repositoryImp"
	kSvcImp "kisansetu/pkg/knowledge/serviceImp"
	"kisansetu/pkg/logging"
	"kisansetu/pkg/market"
	mktCtrlImp "kisansetu/pkg/market/controllerImp"
	"kisansetu/pkg/middleware"
	"kisansetu/pkg/news"
	newsCtrlImp "kisansetu/pkg/news/controllerImp"
	"kisansetu/pkg/scheme"
	schemeCtrlImp "kisansetu/pkg/scheme/controllerImp"
	"kisansetu/pkg/validation"
	"kisansetu/router"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// app is the assembled server: the echo instance plus the background
// refresher it serves news from.
type app struct {
	e    *echo.Echo
	news *news.Refresher
	db   *gorm.DB
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.news.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := a.e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.e.Shutdown(sctx)
	})
	return g.Wait()
}

// build wires every table, store, service and controller from cfg.
func build(ctx context.Context, cfg config.AppConfig, log *zap.Logger) (*app, error) {
	tr, err := i18n.New(cfg.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	crops, err := cropdata.Load(cfg.CropTableXLSX)
	if err != nil {
		return nil, errors.Wrap(err, "crop table")
	}
	stages, err := calendar.LoadStages(cfg.StageConfigCSV)
	if err != nil {
		return nil, errors.Wrap(err, "stage config")
	}
	calc := calculator.New(crops)
	if cfg.FertilizerBagPrices != "" {
		prices, err := calculator.ParseBagPrices(cfg.FertilizerBagPrices)
		if err != nil {
			return nil, errors.Wrap(err, "fertilizer prices")
		}
		calc.WithFertilizerPrices(prices)
	}
	db, err := database.OpenSQLite(cfg.DBPath, cfg.Debug)
	if err != nil {
		return nil, err
	}

	catalog := equipment.DefaultCatalog()

	commSvc := commSvcImp.New(commRepoImp.New(db))
	if seeded, err := commSvc.Seed(time.Now()); err != nil {
		return nil, errors.Wrap(err, "seed community")
	} else if seeded {
		log.Info("seeded community posts")
	}

	kSvc := kSvcImp.New(kRepoImp.New(db), newEmbedder(ctx, cfg, log), log)
	if seeded, err := kSvc.Seed(ctx); err != nil {
		return nil, errors.Wrap(err, "seed knowledge base")
	} else if seeded {
		log.Info("seeded knowledge articles")
	}

	llm, err := ai.New(ctx, ai.Config{
		Provider:     cfg.LLMProvider,
		Endpoint:     cfg.LLMEndpoint,
		APIKey:       cfg.LLMAPIKey,
		Model:        cfg.LLMModel,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
	}, tr)
	if err != nil {
		log.Warn("llm provider unavailable, using scripted replies", zap.Error(err))
		llm = ai.NewMock(tr)
	}
	log.Info("llm provider", zap.String("name", llm.Name()))

	refresher := news.NewRefresher(news.Options{
		Sources:  cfg.NewsSources,
		Interval: cfg.NewsRefreshInterval,
		Logger:   log,
	})

	v := validation.New(crops)
	e := echo.New()
	e.HideBanner = true
	e.Validator = v
	e.HTTPErrorHandler = httperr.Handler(log, v)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logging.RequestLogger(log))
	// list metadata of the bare-array endpoints travels in exposed headers
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Language", "X-Admin-Token"},
		ExposeHeaders: []string{schemeCtrlImp.TotalCountHeader, newsCtrlImp.FallbackHeader, newsCtrlImp.NoticeHeader, echo.HeaderLastModified},
	}))
	e.Use(middleware.Language(tr))

	router.New(e, router.Handlers{
		Calculator: calcCtrlImp.New(calc, stages, tr),
		Calendar:   calCtrlImp.New(calendar.New(calc, stages), tr),
		Equipment:  eqCtrlImp.New(catalog, eqSvcImp.New(eqRepoImp.New(db), catalog), tr),
		Market:     mktCtrlImp.New(market.DefaultReport(), tr),
		Schemes:    schemeCtrlImp.New(scheme.DefaultDirectory(), tr),
		News:       newsCtrlImp.New(refresher, tr),
		Community:  commCtrlImp.New(commSvc, tr),
		Knowledge:  kCtrlImp.New(kSvc, knowledge.DefaultVideos(), tr, cfg.KBAllowedDomains, cfg.KBMaxBytesPerPage),
		Chat:       chatCtrlImp.New(chatSvcImp.New(chatRepoImp.New(db), llm, kSvc, tr, log)),
		I18n:       i18nCtrlImp.New(tr),
		Health:     healthCtrlImp.NewHealthCtrl(db, refresher, llm.Name()),
	}, router.Guards{
		Admin: middleware.AdminToken(cfg.AdminToken),
		Chat:  middleware.PerIP(cfg.ChatRatePerMin, tr),
	})
	return &app{e: e, news: refresher, db: db}, nil
}

// newEmbedder prefers an OpenAI-compatible endpoint, then Gemini. nil means
// keyword search only.
func newEmbedder(ctx context.Context, cfg config.AppConfig, log *zap.Logger) embedder.Embedder {
	switch {
	case cfg.EmbEndpoint != "":
		return embedder.NewOpenAI(cfg.EmbEndpoint, cfg.EmbAPIKey, cfg.EmbModel)
	case cfg.GeminiAPIKey != "":
		g, err := embedder.NewGemini(ctx, cfg.GeminiAPIKey, "")
		if err != nil {
			log.Warn("gemini embedder unavailable", zap.Error(err))
			return nil
		}
		return g
	}
	return nil
}
