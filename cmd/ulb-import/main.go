package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/janmitra/locmaster/internal/db"
	"github.com/janmitra/locmaster/internal/locations"
	"github.com/janmitra/locmaster/internal/masterdata"
	"github.com/janmitra/locmaster/internal/ulbimport"
	"github.com/janmitra/locmaster/internal/utils"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		csvPath  = flag.String("csv", utils.Env("ULB_WARD_CSV_PATH", "data/ulb_wards.csv"), "ULB ward-count CSV")
		jsonPath = flag.String("json", utils.Env("ULB_WARD_JSON_PATH", ""), "alternate scraped ward-count JSON; wins over -csv")
		aliases  = flag.String("aliases", utils.Env("LOCATION_ALIAS_PATH", ""), "optional JSON alias overrides")
		version  = flag.String("version", "", "dataset version label (default: today)")
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

	stats, err := ulbimport.Run(masterdata.NewStore(db.DB), ulbimport.Config{
		CSVPath:  *csvPath,
		JSONPath: *jsonPath,
		Version:  *version,
		Guard:    masterdata.NewGuardFromEnv(),
		Aliases:  table,
	})
	if err != nil {
		logrus.Errorf("ulb import failed: %v", err)
		os.Exit(1)
	}

	fmt.Print(stats.Summary())
}
