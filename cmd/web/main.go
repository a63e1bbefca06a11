// Web server for the kotoba course site
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"

	"github.com/kotoba-school/kotoba/internal/auth"
	"github.com/kotoba-school/kotoba/internal/catalog"
	"github.com/kotoba-school/kotoba/internal/config"
	"github.com/kotoba-school/kotoba/internal/database"
	"github.com/kotoba-school/kotoba/internal/web"
)

var appVersion = "-unset-"

var Prof *prof.Profiler

func main() {
	config.AppVersion = appVersion
	log.Printf("kotoba web server (version: %s)", config.AppVersion)

	var (
		webport     = flag.Int("webport", 0, "Web server port (default: 3000 or KOTOBA_LISTEN_PORT)")
		webssl      = flag.Bool("webssl", false, "Enable SSL")
		webcertFile = flag.String("websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
		webkeyFile  = flag.String("websslkey", "", "SSL key file (/path/to/privkey.pem)")
		dataDir     = flag.String("datadir", "", "Directory for the SQLite database (default: ./data or KOTOBA_DATA_DIR)")
		pprofAddr   = flag.String("pprofweb", "", "Start pprof web server on this addr (e.g. :6060)")
	)
	flag.Parse()

	mainConfig := config.NewDefaultConfig()
	if *webport > 0 {
		mainConfig.Web.ListenPort = *webport
	}
	if *webssl {
		mainConfig.Web.SSL = true
		mainConfig.Web.CertFile = *webcertFile
		mainConfig.Web.KeyFile = *webkeyFile
	}
	if *dataDir != "" {
		mainConfig.Database.DataDir = *dataDir
	}

	if *pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(*pprofAddr)
		log.Printf("pprof web server listening on %s", *pprofAddr)
	}

	dbconfig := database.DefaultDBConfig()
	dbconfig.DataDir = mainConfig.Database.DataDir
	db, err := database.OpenDatabase(dbconfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	hasher := auth.NewHasher(mainConfig.Web.HashScheme)
	authService := auth.NewService(db, hasher)
	catalogReader := catalog.NewReader(db)

	server := web.NewServer(db, &mainConfig.Web, authService, catalogReader)
	server.StartSessionCleanup(15 * time.Minute)

	// Run the server in the background so signals can trigger a clean
	// database shutdown.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down", sig)
	case err := <-serverErr:
		log.Printf("Web server stopped: %v", err)
	}

	if err := db.Shutdown(); err != nil {
		log.Printf("Database shutdown failed: %v", err)
	}
	log.Printf("kotoba web server stopped")
}
