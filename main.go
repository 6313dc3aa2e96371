package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/bankrec/cmd/detect"
	"fjacquet/bankrec/cmd/importer"
	"fjacquet/bankrec/cmd/match"
	"fjacquet/bankrec/cmd/openitems"
	"fjacquet/bankrec/cmd/recon"
	"fjacquet/bankrec/cmd/root"
	"fjacquet/bankrec/cmd/rule"
	"fjacquet/bankrec/cmd/summary"
	"fjacquet/bankrec/cmd/transactions"

	"github.com/sirupsen/logrus"
)

func init() {
	// Set the global logrus level before any logger is created
	configureLogLevel()

	root.Init()

	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(importer.Cmd)
	root.Cmd.AddCommand(transactions.Cmd)
	root.Cmd.AddCommand(transactions.ExportCmd)
	root.Cmd.AddCommand(match.Cmd)
	root.Cmd.AddCommand(match.SuggestCmd)
	root.Cmd.AddCommand(recon.Cmd)
	root.Cmd.AddCommand(recon.UndoCmd)
	root.Cmd.AddCommand(recon.BulkCmd)
	root.Cmd.AddCommand(recon.SplitCmd)
	root.Cmd.AddCommand(rule.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(openitems.Cmd)
}

func configureLogLevel() {
	level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("BANKREC_LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
