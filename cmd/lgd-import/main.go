package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/janmitra/locmaster/internal/db"
	"github.com/janmitra/locmaster/internal/lgdimport"
	"github.com/janmitra/locmaster/internal/locations"
	"github.com/janmitra/locmaster/internal/masterdata"
	"github.com/janmitra/locmaster/internal/utils"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		path    = flag.String("path", utils.Env("LGD_DIRECTORY_PATH", "data/lgd_villages.txt"), "extracted LGD village directory text")
		aliases = flag.String("aliases", utils.Env("LOCATION_ALIAS_PATH", ""), "optional JSON alias overrides")
		version = flag.String("version", "", "dataset version label (default: today)")
	)
	flag.Parse()

	table := masterdata.DefaultAliases()
	if *aliases != "" {
		if err := table.MergeFile(*aliases); err != nil {
			logrus.Fatalf("alias table: %v", err)
		}
	}

	db.Connect()
	locations.Init()

	stats, err := lgdimport.Run(masterdata.NewStore(db.DB), lgdimport.Config{
		Path:    *path,
		Version: *version,
		Guard:   masterdata.NewGuardFromEnv(),
		Aliases: table,
	})
	if err != nil {
		logrus.Errorf("lgd import failed: %v", err)
		os.Exit(1)
	}

	fmt.Print(stats.Summary())
}
