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
	"github.com/janmitra/locmaster/internal/utils"
)

func main() {
	_ = godotenv.Load(".env.local")

	thresholdsPath := flag.String("thresholds", utils.Env("VERIFY_THRESHOLDS_PATH", ""), "YAML file with expected floor counts")
	flag.Parse()

	th := masterdata.DefaultThresholds()
	if *thresholdsPath != "" {
		loaded, err := masterdata.LoadThresholds(*thresholdsPath)
		if err != nil {
			logrus.Fatalf("thresholds: %v", err)
		}
		th = loaded
	}

	db.Connect()
	locations.Init()

	report, err := masterdata.Verify(db.DB, th)
	if err != nil {
		logrus.Errorf("verification failed: %v", err)
		os.Exit(1)
	}

	fmt.Print(report.String())
	if !report.Passed {
		os.Exit(1)
	}
}
