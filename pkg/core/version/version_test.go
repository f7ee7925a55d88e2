package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, "v1", info.API)
}

func TestVersionFormat(t *testing.T) {
	parts := strings.Split(Version, ".")
	assert.Len(t, parts, 3, "version should be semantic (x.y.z)")
}

func TestInfo_String(t *testing.T) {
	s := Info{Version: "1.2.3", GitCommit: "abc123", BuildDate: "2026-10-12", GoVersion: "go1.24.0", Platform: "linux/amd64"}.String()
	assert.Equal(t, "rdtrace 1.2.3 (commit abc123, built 2026-10-12, go1.24.0 linux/amd64)", s)
}
