package main

import (
	"flag"
	"log"
	"strings"

	"invoicing/config"
	"invoicing/database"
	"invoicing/logger"
	"invoicing/metrics"
	"invoicing/middleware"
	"invoicing/router"

	"go.uber.org/zap"
)

// @title GSL Invoicing API
// @version 1.0
// @description Clients, invoices and MYOB exports for GSL
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "external config file (optional)")
	flag.StringVar(&configFile, "c", "", "external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print the version")
	flag.BoolVar(&showVersion, "v", false, "print the version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("gsl-invoicing v1.0.0")
		return
	}

	// embedded defaults, optional external file, environment
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port from command line: %s", port)
	}

	config.PrintConfig()

	zl, err := logger.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	if err := metrics.Register(nil); err != nil {
		zl.Fatal("register metrics", zap.Error(err))
	}

	// fails when the store cannot run serializable transactions
	if err := database.Init(cfg); err != nil {
		zl.Fatal("init database", zap.Error(err))
	}

	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg)

	zl.Info("server started",
		zap.String("addr", cfg.Server.Port),
		zap.String("swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html"),
		zap.String("api", "http://localhost"+cfg.Server.Port+"/api/v1/"),
	)

	if err := r.Run(cfg.Server.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
