package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/r9s-ai/yarn-indent/internal/lines"
	"github.com/r9s-ai/yarn-indent/internal/preprocess"
)

type tmLanguage struct {
	Schema    string                 `json:"$schema"`
	Name      string                 `json:"name"`
	ScopeName string                 `json:"scopeName"`
	FileTypes []string               `json:"fileTypes"`
	Patterns  []map[string]string    `json:"patterns"`
	Repo      map[string]interface{} `json:"repository"`
}

type tmPattern struct {
	Name  string `json:"name,omitempty"`
	Match string `json:"match,omitempty"`
	Begin string `json:"begin,omitempty"`
	End   string `json:"end,omitempty"`

	Patterns []tmPattern `json:"patterns,omitempty"`
}

type tmRepositoryEntry struct {
	Patterns []tmPattern `json:"patterns"`
}

var output = flag.String("output", "vscode/syntaxes/yarn.tmLanguage.json", "output grammar file path")

var commandKeywords = []string{
	"if", "elseif", "else", "endif", "set", "call", "jump", "declare", "stop", "wait", "to", "as",
}

var constantKeywords = []string{"true", "false", "null"}

func main() {
	flag.Parse()

	b, err := renderGrammar(buildGrammar())
	if err != nil {
		fatalf("marshal grammar: %v", err)
	}

	outPath := *output
	if !filepath.IsAbs(outPath) {
		wd, err := os.Getwd()
		if err != nil {
			fatalf("getwd: %v", err)
		}
		outPath = filepath.Join(wd, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fatalf("mkdir output dir: %v", err)
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		fatalf("write grammar: %v", err)
	}
}

func buildGrammar() tmLanguage {
	return tmLanguage{
		Schema:    "https://raw.githubusercontent.com/martinring/tmlanguage/master/tmlanguage.json",
		Name:      "Yarn",
		ScopeName: "source.yarn",
		FileTypes: []string{"yarn"},
		Patterns: []map[string]string{
			{"include": "#comments"},
			{"include": "#node-header"},
			{"include": "#delimiters"},
			{"include": "#block-markers"},
			{"include": "#options"},
			{"include": "#commands"},
			{"include": "#inline-expressions"},
			{"include": "#speaker"},
		},
		Repo: map[string]interface{}{
			"comments": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "comment.line.double-slash.yarn", Match: "//.*$"},
			}},
			"node-header": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "entity.name.function.node.yarn", Match: `^\s*title:\s*\S+`},
				{Name: "meta.header.yarn", Match: `^\s*[A-Za-z_][A-Za-z0-9_]*:\s.*$`},
			}},
			"delimiters": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "keyword.other.body-start.yarn", Match: `^\s*---\s*$`},
				{Name: "keyword.other.body-end.yarn", Match: `^\s*===\s*$`},
			}},
			"block-markers": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "punctuation.section.block.begin.yarn", Match: markerRegex(preprocess.DefaultIndentMarker)},
				{Name: "punctuation.section.block.end.yarn", Match: markerRegex(preprocess.DefaultDedentMarker)},
			}},
			"options": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "keyword.control.option.yarn", Match: `^\s*` + regexp.QuoteMeta(lines.OptionPrefix)},
			}},
			"commands": tmRepositoryEntry{Patterns: []tmPattern{
				{
					Name:  "meta.command.yarn",
					Begin: `<<`,
					End:   `>>`,
					Patterns: []tmPattern{
						{Name: "keyword.control.yarn", Match: wordRegex(commandKeywords)},
						{Name: "constant.language.yarn", Match: wordRegex(constantKeywords)},
						{Name: "variable.other.yarn", Match: `\$[A-Za-z_][A-Za-z0-9_]*`},
						{Name: "constant.numeric.yarn", Match: `\b\d+(?:\.\d+)?\b`},
						{Name: "string.quoted.double.yarn", Match: `"(?:[^"\\]|\\.)*"`},
					},
				},
			}},
			"inline-expressions": tmRepositoryEntry{Patterns: []tmPattern{
				{
					Name:  "meta.interpolation.yarn",
					Begin: `\{`,
					End:   `\}`,
					Patterns: []tmPattern{
						{Name: "variable.other.yarn", Match: `\$[A-Za-z_][A-Za-z0-9_]*`},
					},
				},
			}},
			"speaker": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "entity.name.tag.speaker.yarn", Match: `^\s*[A-Za-z_][A-Za-z0-9_ ]*(?=:)`},
			}},
		},
	}
}

func renderGrammar(g tmLanguage) ([]byte, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// markerRegex spells a control character as a \x escape so the grammar file
// stays printable.
func markerRegex(r rune) string {
	return fmt.Sprintf(`\x{%04X}`, r)
}

func wordRegex(words []string) string {
	if len(words) == 0 {
		return `\b\B`
	}
	return `\b(?:` + joinRegexAlternation(words) + `)\b`
}

func joinRegexAlternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	escaped := make([]string, 0, len(sorted))
	for _, w := range sorted {
		escaped = append(escaped, regexp.QuoteMeta(w))
	}
	return strings.Join(escaped, "|")
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "yarn-tmgen: "+format+"\n", args...)
	os.Exit(1)
}
