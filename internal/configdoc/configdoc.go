// Package configdoc renders the environment configuration of the service as
// a .env example, Kubernetes manifests and a markdown reference.
package configdoc

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Setting is one environment variable
type Setting struct {
	Env         string
	Default     string
	Description string
	Secret      bool
}

// Section groups the settings of one configuration struct
type Section struct {
	Name     string
	Title    string
	Settings []Setting
}

// Sections walks an envconfig-tagged struct. Top level scalar fields form the
// "general" section, nested struct pointers with a prefix form their own.
func Sections(cfg interface{}) []Section {
	t := reflect.TypeOf(cfg)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	caser := cases.Title(language.English)
	general := Section{Name: "general", Title: "General Settings"}
	var nested []Section
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("env")
		if tag == "" {
			continue
		}

		name, opts := parseTag(tag)
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && name == "" {
			prefix := opts["prefix"]
			section := Section{
				Name:  strings.ToLower(strings.TrimSuffix(prefix, "_")),
				Title: caser.String(strings.ToLower(field.Name)) + " Settings",
			}
			if field.Name == "OIDC" {
				section.Title = "OIDC Settings"
			}
			for j := 0; j < ft.NumField(); j++ {
				if s, ok := setting(ft.Field(j), prefix); ok {
					section.Settings = append(section.Settings, s)
				}
			}
			nested = append(nested, section)
			continue
		}

		if s, ok := setting(field, ""); ok {
			general.Settings = append(general.Settings, s)
		}
	}

	return append([]Section{general}, nested...)
}

func setting(field reflect.StructField, prefix string) (Setting, bool) {
	tag := field.Tag.Get("env")
	if tag == "" {
		return Setting{}, false
	}
	name, opts := parseTag(tag)
	if name == "" {
		return Setting{}, false
	}
	return Setting{
		Env:         prefix + name,
		Default:     opts["default"],
		Description: field.Tag.Get("description"),
		Secret:      field.Tag.Get("type") == "secret",
	}, true
}

// parseTag splits `NAME, prefix=X_, default=value`. A default runs to the end
// of the tag.
func parseTag(tag string) (string, map[string]string) {
	opts := make(map[string]string)
	if idx := strings.Index(tag, "default="); idx >= 0 {
		opts["default"] = tag[idx+len("default="):]
		tag = tag[:idx]
	}

	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if k, v, ok := strings.Cut(part, "="); ok {
			opts[k] = v
		}
	}
	return name, opts
}

// WriteEnv renders a .env example with every non secret default filled in
func WriteEnv(w io.Writer, sections []Section) error {
	var sb strings.Builder
	for i, section := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("# %s\n", section.Title))
		for _, s := range section.Settings {
			value := s.Default
			if s.Secret {
				value = ""
			}
			sb.WriteString(fmt.Sprintf("%s=%s\n", s.Env, value))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteConfigMap renders the non secret settings as a Kubernetes ConfigMap
func WriteConfigMap(w io.Writer, name string, sections []Section) error {
	return writeManifest(w, "ConfigMap", "data", name, sections, false)
}

// WriteSecret renders the secret settings, with empty values, as a Kubernetes
// Secret
func WriteSecret(w io.Writer, name string, sections []Section) error {
	return writeManifest(w, "Secret", "stringData", name, sections, true)
}

func writeManifest(w io.Writer, kind, dataKey, name string, sections []Section, secrets bool) error {
	data := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range sections {
		first := true
		for _, s := range section.Settings {
			if s.Secret != secrets {
				continue
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Value: s.Env}
			if first {
				key.HeadComment = section.Title
				first = false
			}
			value := s.Default
			if secrets {
				value = ""
			}
			data.Content = append(data.Content, key, &yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: yaml.DoubleQuotedStyle})
		}
	}

	metadata := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(metadata, "name", scalar(name))
	appendPair(metadata, "namespace", scalar(name))
	labels := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(labels, "app", scalar(name))
	appendPair(metadata, "labels", labels)

	root := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(root, "apiVersion", scalar("v1"))
	appendPair(root, "kind", scalar(kind))
	appendPair(root, "metadata", metadata)
	if secrets {
		appendPair(root, "type", scalar("Opaque"))
	}
	appendPair(root, dataKey, data)

	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return err
	}
	return encoder.Close()
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}

// WriteMarkdown renders the configuration reference
func WriteMarkdown(w io.Writer, title string, sections []Section) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	for _, section := range sections {
		sb.WriteString(fmt.Sprintf("## %s\n\n", section.Title))
		sb.WriteString("| Environment Variable | Default Value | Description |\n")
		sb.WriteString("|---------------------|---------------|-------------|\n")
		for _, s := range section.Settings {
			defaultVal := "`" + s.Default + "`"
			if s.Default == "" {
				defaultVal = "`\"\"`"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", s.Env, defaultVal, s.Description))
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
