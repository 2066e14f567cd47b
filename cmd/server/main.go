package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/premises-rental/internal/config"
	"github.com/iliyamo/premises-rental/internal/database"
	"github.com/iliyamo/premises-rental/internal/handler"
	"github.com/iliyamo/premises-rental/internal/middleware"
	"github.com/iliyamo/premises-rental/internal/queue"
	"github.com/iliyamo/premises-rental/internal/repository"
	"github.com/iliyamo/premises-rental/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	companies := repository.NewCompanyRepo(db)
	buildings := repository.NewBuildingRepo(db)
	categories := repository.NewCategoryRepo(db)
	rooms := repository.NewRoomRepo(db)
	photos := repository.NewPhotoRepo(db)
	leases := repository.NewLeaseRepo(db)
	payments := repository.NewPaymentRepo(db)
	maint := repository.NewMaintenanceRepo(db)
	reviews := repository.NewReviewRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	companyH := handler.NewCompanyHandler(companies)
	buildingH := handler.NewBuildingHandler(buildings, companies)
	categoryH := handler.NewCategoryHandler(categories)
	roomH := handler.NewRoomHandler(cfg, rooms, photos, reviews, favorites)
	leaseH := handler.NewLeaseHandler(leases, payments, rooms)
	maintH := handler.NewMaintenanceHandler(maint, rooms)
	reviewH := handler.NewReviewHandler(reviews, rooms)
	favoriteH := handler.NewFavoriteHandler(favorites, rooms)
	statsH := handler.NewStatsHandler(rooms, buildings, leases, users)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: without it the catalogue is served uncached and
	// unthrottled, which is fine for development.
	var public []echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		public = append(public, middleware.NewTokenBucket(rlCfg, rdb))
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			public = append(public, middleware.NewRedisCache(cacheCfg, rdb))
		}
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, users, cfg.JWTSecret)
	router.RegisterPublic(e, users, roomH, companyH, buildingH, categoryH, statsH, cfg.JWTSecret, public...)
	router.RegisterProtected(e, users, cfg.JWTSecret,
		roomH, companyH, buildingH, categoryH, leaseH, maintH, reviewH, favoriteH)

	// Uploaded room photos are served straight from disk.
	e.Static("/"+cfg.UploadDir, cfg.UploadDir)

	// The consumer keeps its own connection and reconnects on failure.
	go func() {
		if err := queue.StartLeaseConsumer(); err != nil {
			log.Printf("lease consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
