// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultmanager

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/maidsafe/vault-manager/constants"
	"github.com/maidsafe/vault-manager/util"
)

// StartUpdateLoop runs checkForUpdates every updateInterval until
// shutdown is closed, in the style of a background.Process: errors
// are logged and never disarm the loop.
func (m *Manager) StartUpdateLoop(shutdown <-chan bool, finished chan<- bool) {
	defer close(finished)

	for {
		m.updateMu.Lock()
		interval := m.updateInterval
		m.updateMu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-shutdown:
			timer.Stop()
			return
		case <-timer.C:
			m.checkForUpdates()
		}
	}
}

// checkForUpdates downloads the global bootstrap file, then scans for
// newer versions of the three applications the manager tracks. A
// successful update of the vault or the manager's own binary triggers
// restartSelf so the running process picks up the new version.
func (m *Manager) checkForUpdates() {
	if err := m.fetchBootstrap(); nil != err {
		m.log.Warnf("bootstrap fetch failed: %s", err)
		return
	}

	for _, name := range []string{m.options.ApplicationName, m.options.VaultName, m.options.ManagerName} {
		if "" == name {
			continue
		}
		updatedFile, err := m.checkApplicationUpdate(name)
		if nil != err {
			m.log.Warnf("update check for %s failed: %s", name, err)
			continue
		}
		if "" == updatedFile {
			continue
		}
		if name == m.options.VaultName || name == m.options.ManagerName {
			if err := restartSelf(updatedFile, name); nil != err {
				m.log.Warnf("restart after update of %s failed: %s", name, err)
			}
		}
	}
}

func (m *Manager) fetchBootstrap() error {
	if "" == m.options.UpdateHost {
		return nil
	}
	data, err := util.FetchBytes(m.client, m.options.UpdateHost+"/"+constants.BootstrapFilename)
	if nil != err {
		return err
	}
	path := filepath.Join(m.options.ConfigDirectory, constants.BootstrapFilename)
	return os.WriteFile(path, data, 0600)
}

// platform is the machine/OS component of the update filename grammar,
// the Go analogue of the original manager's detail::Platform.
type platform string

// the closed set of platforms the update filename grammar recognises
const (
	platformLinux   platform = "linux"
	platformDarwin  platform = "darwin"
	platformWindows platform = "windows"
	platformUnknown platform = "unknown"
)

// thisPlatform reports the platform component this process itself
// runs under, the equivalent of detail::kThisPlatform().
func thisPlatform() platform {
	switch runtime.GOOS {
	case "linux":
		return platformLinux
	case "darwin":
		return platformDarwin
	case "windows":
		return platformWindows
	default:
		return platformUnknown
	}
}

// executableExtension is the suffix generateFileName appends for this
// platform: only Windows binaries carry one.
func (p platform) executableExtension() string {
	if platformWindows == p {
		return ".exe"
	}
	return ""
}

// versionFilenamePattern matches "<app>-<platform>-<version>[.exe]"
// names, e.g. "vault-linux-1.02.03" or "vault-windows-1.02.03.exe"
var versionFilenamePattern = regexp.MustCompile(`^(.+)-(linux|darwin|windows|unknown)-([0-9]+\.[0-9]+\.[0-9]+)(\.exe)?$`)

// tokeniseFileName splits a filename generateFileName could have
// produced back into its application, platform and version parts.
func tokeniseFileName(fileName string) (app string, plat platform, version string, ok bool) {
	match := versionFilenamePattern.FindStringSubmatch(fileName)
	if nil == match {
		return "", "", "", false
	}
	plat = platform(match[2])
	if platformWindows == plat && "" == match[4] {
		return "", "", "", false
	}
	return match[1], plat, match[3], true
}

// generateFileName builds the filename an application/platform/version
// combination is published and stored under.
func generateFileName(app string, plat platform, version string) string {
	return app + "-" + string(plat) + "-" + version + plat.executableExtension()
}

// findLatestLocalVersion scans the config directory for the newest
// file matching application's filename grammar for this platform,
// falling back to generateFileName's placeholder name at version
// "0.00.00" when none is present. Logging is quieted to a critical-only
// filter for the scan and restored to m.logLevels afterwards, mirroring
// the original implementation's temporary filter swap around a
// directory walk that would otherwise be noisy.
func (m *Manager) findLatestLocalVersion(application string) string {
	logger.LoadLevels(map[string]string{logger.DefaultTag: "critical"})
	defer logger.LoadLevels(m.logLevels)

	entries, err := os.ReadDir(m.options.ConfigDirectory)
	if nil != err {
		return generateFileName(application, thisPlatform(), "0.00.00")
	}

	latestVersion := "0.00.00"
	latestFile := ""
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		app, plat, version, ok := tokeniseFileName(entry.Name())
		if !ok || app != application || plat != thisPlatform() {
			continue
		}
		if "" == latestFile || version > latestVersion {
			latestVersion = version
			latestFile = entry.Name()
		}
	}

	if "" == latestFile {
		return generateFileName(application, thisPlatform(), "0.00.00")
	}
	return latestFile
}

// restartSelf relaunches executableName after latestFile has replaced
// its target binary, shelling out to the platform's restart script the
// way the original manager does; it does not wait for the child.
func restartSelf(latestFile, executableName string) error {
	var name string
	var arguments []string
	if platformWindows == thisPlatform() {
		name, arguments = "restart_vm_windows.bat", []string{latestFile, executableName}
	} else {
		name, arguments = "./restart_vm_linux.sh", []string{latestFile, executableName}
	}

	cmd := exec.Command(name, arguments...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Start()
}

// manifest is the small JSON document the update host publishes per
// tracked application, naming the newest available version and where
// to fetch its binary.
type manifest struct {
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
}

// checkApplicationUpdate asks the update host's manifest for name; if
// it names a version newer than findLatestLocalVersion(name), fetches
// the binary, repoints the config directory's symlink at it, and
// returns the path the new binary was written to. Returns "" if no
// update was applied.
func (m *Manager) checkApplicationUpdate(name string) (string, error) {
	if "" == m.options.UpdateHost {
		return "", nil
	}

	var latest manifest
	manifestURL := m.options.UpdateHost + "/" + name + "/manifest"
	if err := util.FetchJSON(m.client, manifestURL, &latest); nil != err {
		return "", err
	}

	_, _, currentVersion, ok := tokeniseFileName(m.findLatestLocalVersion(name))
	if !ok {
		currentVersion = "0.00.00"
	}
	if "" == latest.Version || latest.Version <= currentVersion {
		return "", nil
	}

	data, err := util.FetchBytes(m.client, latest.DownloadURL)
	if nil != err || 0 == len(data) {
		return "", err
	}

	fileName := generateFileName(name, thisPlatform(), latest.Version)
	destination := filepath.Join(m.options.ConfigDirectory, fileName)
	if err := os.WriteFile(destination, data, 0700); nil != err {
		return "", err
	}

	if platformWindows != thisPlatform() {
		linkPath := filepath.Join(m.options.ConfigDirectory, name)
		os.Remove(linkPath)
		if err := os.Symlink(destination, linkPath); nil != err {
			return "", err
		}
	}

	return destination, nil
}
