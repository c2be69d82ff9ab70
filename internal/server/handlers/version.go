package handlers

import "net/http"

// Build information, set at link time via -ldflags and surfaced through
// SetBuildInfo during startup.
var buildInfo = VersionResponse{
	Version:   "dev",
	Commit:    "none",
	BuildDate: "unknown",
}

// VersionResponse is the JSON body of the version endpoint.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// SetBuildInfo records the build identity served by VersionHandler.
func SetBuildInfo(version, commit, buildDate string) {
	buildInfo = VersionResponse{Version: version, Commit: commit, BuildDate: buildDate}
}

// VersionHandler serves the build identity.
func VersionHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildInfo)
}
