package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := Root.Execute(); err != nil {
		logrus.WithError(err).Error("heatgrid failed")
		os.Exit(1)
	}
}
