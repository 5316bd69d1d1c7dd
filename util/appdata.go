// Copyright (c) 2013-2014 Conformal Systems LLC.
// Copyright (c) 2014-2015 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

// AppDataDir returns an operating system specific directory to be used
// for storing application data for an application.
//
// The appName parameter is the name of the application the data
// directory is being requested for.  A leading period is stripped, and
// the name is lower cased for unix style directories and preserved
// with a leading capital for windows and OS X.
//
// The roaming parameter only applies to Windows where it specifies the
// roaming application data profile (%APPDATA%) rather than the local
// one (%LOCALAPPDATA%).
func AppDataDir(appName string, roaming bool) string {
	return appDataDir(runtime.GOOS, appName, roaming)
}

func appDataDir(goos string, appName string, roaming bool) string {
	if appName == "" || appName == "." {
		return "."
	}

	// strip a leading dot
	appName = strings.TrimPrefix(appName, ".")
	appNameUpper := strings.ToUpper(appName[:1]) + appName[1:]
	appNameLower := strings.ToLower(appName[:1]) + appName[1:]

	usr, err := user.Current()
	var homeDir string
	if err == nil {
		homeDir = usr.HomeDir
	} else {
		homeDir = os.Getenv("HOME")
	}

	switch goos {
	case "windows":
		var appData string
		if roaming {
			appData = os.Getenv("APPDATA")
		} else {
			appData = os.Getenv("LOCALAPPDATA")
			if appData == "" {
				appData = os.Getenv("APPDATA")
			}
		}
		if appData == "" {
			return "."
		}
		return filepath.Join(appData, appNameUpper)

	case "darwin":
		if homeDir == "" {
			return "."
		}
		return filepath.Join(homeDir, "Library", "Application Support", appNameUpper)

	case "plan9":
		if homeDir == "" {
			return "."
		}
		return filepath.Join(homeDir, appNameLower)

	default:
		if homeDir == "" {
			return "."
		}
		dotConfig := filepath.Join(homeDir, ".config")
		if info, err := os.Stat(dotConfig); err == nil && info.IsDir() {
			return filepath.Join(dotConfig, appNameLower)
		}
		return filepath.Join(homeDir, "."+appNameLower)
	}
}
