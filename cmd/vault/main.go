// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"github.com/MKhiriev/go-life-vault/internal/cli"
	"github.com/MKhiriev/go-life-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cli.SetBuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	cli.Execute()
}
