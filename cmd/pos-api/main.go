package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"google.golang.org/grpc"

	_ "github.com/MikeMC777/kasir-pos/docs"
	"github.com/MikeMC777/kasir-pos/internal/asset"
	"github.com/MikeMC777/kasir-pos/internal/auth"
	"github.com/MikeMC777/kasir-pos/internal/category"
	"github.com/MikeMC777/kasir-pos/internal/config"
	"github.com/MikeMC777/kasir-pos/internal/db"
	"github.com/MikeMC777/kasir-pos/internal/httpx"
	"github.com/MikeMC777/kasir-pos/internal/order"
	"github.com/MikeMC777/kasir-pos/internal/payment"
	"github.com/MikeMC777/kasir-pos/internal/product"
	"github.com/MikeMC777/kasir-pos/internal/user"
)

// @title           Kasir POS API
// @version         1.0
// @description     Point-of-sale backend: users, categories, products, payment methods and orders.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	seedAdmin := flag.String("seed-admin", "", "create an admin `email:password` when it does not exist")
	flag.Parse()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[db] %v", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("[db] migrate: %v", err)
		}
	}

	assets, err := newAssetStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[asset] %v", err)
	}

	a := newApp(pool, assets, cfg)

	if *seedAdmin != "" {
		email, password, ok := strings.Cut(*seedAdmin, ":")
		if !ok {
			log.Fatalf("-seed-admin expects email:password")
		}
		if err := a.users.EnsureAdmin(ctx, email, password); err != nil {
			log.Fatalf("[user] seed admin: %v", err)
		}
	}

	rdb := newRedis(ctx, cfg.RedisAddr)
	if rdb != nil {
		defer rdb.Close()
	}

	r, err := newEngine(cfg)
	if err != nil {
		log.Fatalf("[http] %v", err)
	}
	r.GET("/healthz", healthHandler(pool))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	a.routes(r, httpx.RateLimiter(rdb, "login", cfg.LoginRateLimit))

	gs, hs := newHealthServer()
	go watchHealth(ctx, pool, hs)
	go func() {
		l, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("[grpc] listen %s: %v", cfg.GRPCAddr, err)
		}
		log.Printf("[grpc] health listening on %s", cfg.GRPCAddr)
		if err := gs.Serve(l); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Printf("[grpc] serve: %v", err)
		}
	}()

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Printf("[http] pos-api listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[http] %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[http] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	gs.GracefulStop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[http] shutdown: %v", err)
	}
}

func newAssetStore(ctx context.Context, cfg config.Config) (asset.Store, error) {
	switch cfg.AssetDriver {
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("ASSET_DRIVER=s3 requires S3_BUCKET")
		}
		return asset.NewS3(ctx, cfg.S3Bucket)
	case "local", "":
		return asset.NewLocal(cfg.AssetRoot)
	}
	return nil, errors.New("unknown ASSET_DRIVER " + cfg.AssetDriver)
}

// newRedis returns nil when addr is empty or the server does not answer, which
// disables rate limiting.
func newRedis(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[redis] %s unreachable, rate limiting disabled: %v", addr, err)
		_ = client.Close()
		return nil
	}
	log.Printf("[redis] connected to %s", addr)
	return client
}

// app holds the services behind the HTTP surface.
type app struct {
	users      *user.Service
	categories *category.Service
	products   *product.Service
	payments   *payment.Service
	orders     *order.Service
	gate       *auth.Service
	assets     asset.Store
}

func newApp(pool *pgxpool.Pool, assets asset.Store, cfg config.Config) *app {
	userRepo := user.NewPGRepo(pool)
	users := user.NewService(userRepo, db.Bind(pool, func(q db.DBTX) user.Repository { return user.NewPGRepo(q) }))

	return &app{
		users: users,
		categories: category.NewService(category.NewPGRepo(pool),
			db.Bind(pool, func(q db.DBTX) category.Repository { return category.NewPGRepo(q) })),
		products: product.NewService(product.NewPGRepo(pool),
			db.Bind(pool, func(q db.DBTX) product.Repository { return product.NewPGRepo(q) }), assets),
		payments: payment.NewService(payment.NewPGRepo(pool),
			db.Bind(pool, func(q db.DBTX) payment.Repository { return payment.NewPGRepo(q) }), assets),
		orders: order.NewService(order.BindRepos(pool), db.Bind(pool, order.BindRepos)),
		gate:   auth.NewService(auth.NewPGRepo(pool), users, userRepo, cfg.JWTSecret, cfg.TokenTTL),
		assets: assets,
	}
}

// newEngine builds the gin engine with the shared middleware. Only the
// configured proxies may set the client IP through X-Forwarded-For.
func newEngine(cfg config.Config) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	return r, nil
}
