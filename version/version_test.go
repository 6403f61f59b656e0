package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	info := Info{CommitHash: "abc1234def", BuildTime: "2026-01-02", Version: "dev"}
	assert.Equal(t, "tsexport dev (commit abc1234, built 2026-01-02)", info.String())

	info.Version = "v0.3.0"
	assert.Equal(t, "tsexport v0.3.0 (commit abc1234, built 2026-01-02)", info.String())
}

func TestInfoShort(t *testing.T) {
	assert.Equal(t, "abc1234", Info{CommitHash: "abc1234def"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestWithBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
		},
	}

	got := withBuildInfo(Info{CommitHash: "dev", BuildTime: "unknown", Version: "dev"}, bi)
	assert.Equal(t, "v1.2.0", got.Version)
	assert.Equal(t, "0123456789abcdef", got.CommitHash)
	assert.Equal(t, "2026-03-04T05:06:07Z", got.BuildTime)
}

func TestWithBuildInfo_LdflagsWin(t *testing.T) {
	bi := &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fromvcs"}},
	}

	got := withBuildInfo(Info{CommitHash: "fromldflags", BuildTime: "t", Version: "dev"}, bi)
	assert.Equal(t, "dev", got.Version)
	assert.Equal(t, "fromldflags", got.CommitHash)
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
