package configdoc

import (
	"strings"
	"testing"

	"github.com/inference-gateway/calendar-assistant/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func findSection(t *testing.T, sections []Section, name string) Section {
	t.Helper()
	for _, s := range sections {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("section %s not found", name)
	return Section{}
}

func findSetting(t *testing.T, section Section, env string) Setting {
	t.Helper()
	for _, s := range section.Settings {
		if s.Env == env {
			return s
		}
	}
	t.Fatalf("setting %s not found in %s", env, section.Name)
	return Setting{}
}

func TestSections(t *testing.T) {
	sections := Sections(config.Config{})

	require.NotEmpty(t, sections)
	assert.Equal(t, "general", sections[0].Name)
	assert.Equal(t, "calendar-assistant", findSetting(t, sections[0], "APPLICATION_NAME").Default)

	calendar := findSection(t, sections, "calendar")
	assert.Equal(t, "Calendar Settings", calendar.Title)
	tz := findSetting(t, calendar, "CALENDAR_TIMEZONE")
	assert.Equal(t, "Asia/Kolkata", tz.Default)
	assert.NotEmpty(t, tz.Description)

	oidc := findSection(t, sections, "oidc")
	assert.Equal(t, "OIDC Settings", oidc.Title)
	assert.True(t, findSetting(t, oidc, "OIDC_CLIENT_SECRET").Secret)

	completion := findSection(t, sections, "completion")
	assert.True(t, findSetting(t, completion, "COMPLETION_API_KEY").Secret)
	assert.Equal(t, "30s", findSetting(t, completion, "COMPLETION_TIMEOUT").Default)
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag          string
		expectedName string
		expectedOpts map[string]string
	}{
		{tag: "PORT, default=8080", expectedName: "PORT", expectedOpts: map[string]string{"default": "8080"}},
		{tag: ", prefix=SERVER_", expectedName: "", expectedOpts: map[string]string{"prefix": "SERVER_"}},
		{tag: "API_KEY", expectedName: "API_KEY", expectedOpts: map[string]string{}},
		{tag: "ISSUER_URL, default=http://keycloak:8080/realms/a,b", expectedName: "ISSUER_URL", expectedOpts: map[string]string{"default": "http://keycloak:8080/realms/a,b"}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			name, opts := parseTag(tt.tag)
			assert.Equal(t, tt.expectedName, name)
			assert.Equal(t, tt.expectedOpts, opts)
		})
	}
}

func TestWriteEnv(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteEnv(&sb, Sections(config.Config{})))

	out := sb.String()
	assert.Contains(t, out, "# Matcher Settings\n")
	assert.Contains(t, out, "MATCHER_TIME_WINDOW=30m\n")
	assert.Contains(t, out, "OIDC_CLIENT_ID=\n")
}

func TestWriteManifests(t *testing.T) {
	sections := Sections(config.Config{})

	var configMap strings.Builder
	require.NoError(t, WriteConfigMap(&configMap, "calendar-assistant", sections))
	var cm struct {
		Kind string            `yaml:"kind"`
		Data map[string]string `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(configMap.String()), &cm))
	assert.Equal(t, "ConfigMap", cm.Kind)
	assert.Equal(t, "5", cm.Data["ASSISTANT_MAX_CANDIDATES"])
	assert.NotContains(t, cm.Data, "COMPLETION_API_KEY")

	var secret strings.Builder
	require.NoError(t, WriteSecret(&secret, "calendar-assistant", sections))
	var s struct {
		Kind       string            `yaml:"kind"`
		Type       string            `yaml:"type"`
		StringData map[string]string `yaml:"stringData"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(secret.String()), &s))
	assert.Equal(t, "Secret", s.Kind)
	assert.Equal(t, "Opaque", s.Type)
	assert.Contains(t, s.StringData, "COMPLETION_API_KEY")
	assert.Equal(t, "", s.StringData["OIDC_CLIENT_ID"])
	assert.NotContains(t, s.StringData, "SERVER_PORT")
}

func TestWriteMarkdown(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteMarkdown(&sb, "Calendar Assistant Configuration", Sections(config.Config{})))

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "# Calendar Assistant Configuration\n\n## General Settings\n"))
	assert.Contains(t, out, "| SERVER_PORT | `8080` | Server port |")
	assert.Contains(t, out, "| COMPLETION_API_KEY | `\"\"` |")
}
