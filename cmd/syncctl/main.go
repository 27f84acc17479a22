package main

import (
	"fmt"
	"os"

	"github.com/MKhiriev/go-delta-sync/internal/client"
	"github.com/MKhiriev/go-delta-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	if err := client.Execute(os.Args[1:], buildInfo); err != nil {
		fmt.Fprintf(os.Stderr, "syncctl: %v\n", err)
		os.Exit(1)
	}
}
