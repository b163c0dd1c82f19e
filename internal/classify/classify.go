// Package classify turns a failing command and its combined output into a
// stable failure signature. Classification is pure text matching on the
// command string; nothing is ever executed or re-parsed as shell syntax.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/google/shlex"
)

// Tool is the tooling category assigned to a command.
type Tool string

const (
	ToolLint      Tool = "lint"
	ToolTypecheck Tool = "typecheck"
	ToolBuild     Tool = "build"
	ToolTest      Tool = "test"
	ToolPackage   Tool = "package"
	ToolGit       Tool = "git"
	ToolOther     Tool = "other"
)

// Category is the observation category a signature is filed under.
type Category string

const (
	CategoryMissing Category = "missing"
	CategoryExcess  Category = "excess"
	CategoryStyle   Category = "style"
	CategoryOther   Category = "other"
)

// Signature is the extracted failure signature for one failing command.
type Signature struct {
	Tool      Tool
	Category  Category
	Situation string
}

const (
	// maxLineLen caps the diagnostic line taken from command output.
	maxLineLen = 200

	// maxSituationLen caps the full situation string.
	maxSituationLen = 500

	// unknownError is the fallback situation when output is entirely empty.
	unknownError = "Unknown error"
)

// toolRule is one ordered classification rule. The first rule that
// matches wins; rule order is load-bearing because tool names overlap
// (e.g. "test" appears inside build invocations like "npm run build-test").
// Substrings match anywhere in the command text; tokens must match a
// whole shell word, which keeps short names like "test" from firing on
// words like "latest".
type toolRule struct {
	tool       Tool
	substrings []string
	tokens     []string
}

// toolRules is evaluated top to bottom on a lowercased copy of the
// command. Build is deliberately checked before test.
var toolRules = []toolRule{
	{ToolLint,
		[]string{"lint", "flake8", "rubocop", "clippy", "shellcheck", "prettier"},
		[]string{"ruff"}},
	{ToolTypecheck,
		[]string{"typecheck", "pyright"},
		[]string{"tsc", "mypy"}},
	{ToolBuild,
		[]string{"build", "gradle", "cmake", "ninja", "javac", "rustc", "webpack", "clang"},
		[]string{"make", "mvn", "gcc", "g++", "cc"}},
	{ToolTest,
		[]string{"pytest", "vitest", "mocha", "rspec"},
		[]string{"test", "jest", "tox"}},
	{ToolPackage,
		[]string{"poetry", "bundle", "composer", "apt-get", "go get", "cargo add"},
		[]string{"npm", "pnpm", "yarn", "pip", "pip3", "gem", "brew", "apt"}},
}

// categoryFor maps a tool category to its observation category.
var categoryFor = map[Tool]Category{
	ToolLint:      CategoryStyle,
	ToolTypecheck: CategoryMissing,
	ToolPackage:   CategoryMissing,
}

// ClassifyCommand assigns exactly one tool category to a command string.
func ClassifyCommand(cmd string) Tool {
	lower := strings.ToLower(cmd)
	tokens := tokenize(lower)

	for _, rule := range toolRules {
		if rule.matches(lower, tokens) {
			return rule.tool
		}
	}

	// A command that is or contains a version-control invocation.
	if hasToken(tokens, "git") {
		return ToolGit
	}

	return ToolOther
}

func (r toolRule) matches(lower string, tokens []string) bool {
	for _, sub := range r.substrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	for _, tok := range r.tokens {
		if hasToken(tokens, tok) {
			return true
		}
	}
	return false
}

func hasToken(tokens []string, want string) bool {
	for _, tok := range tokens {
		if tok == want {
			return true
		}
	}
	return false
}

// tokenize splits a command with shell-aware quoting rules, degrading to
// whitespace splitting when the command is not valid shell syntax.
func tokenize(cmd string) []string {
	tokens, err := shlex.Split(cmd)
	if err != nil {
		return strings.Fields(cmd)
	}
	return tokens
}

// Extract produces the failure signature for a command, or ok=false when
// the exit code is zero (success is not tracked). It never fails:
// missing or unusable output degrades to fallback tokens.
func Extract(cmd string, exitCode int, output string) (Signature, bool) {
	if exitCode == 0 {
		return Signature{}, false
	}

	tool := ClassifyCommand(cmd)

	line := diagnosticLine(output)
	if line == "" {
		line = unknownError
	}

	situation := string(tool) + ": " + truncate(line, maxLineLen)

	category, ok := categoryFor[tool]
	if !ok {
		category = CategoryOther
	}

	return Signature{
		Tool:      tool,
		Category:  category,
		Situation: truncate(situation, maxSituationLen),
	}, true
}

// diagnosticKeywords flag a line as carrying the interesting diagnostic.
var diagnosticKeywords = []string{"error", "warning", "warn", "fail"}

// diagnosticLine scans output lines in original order for the first line
// containing a diagnostic keyword, falling back to the first non-empty
// line. Returns "" only when the output has no non-empty line at all.
func diagnosticLine(output string) string {
	var firstNonEmpty string

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if firstNonEmpty == "" {
			firstNonEmpty = trimmed
		}

		lower := strings.ToLower(trimmed)
		for _, kw := range diagnosticKeywords {
			if strings.Contains(lower, kw) {
				return trimmed
			}
		}
	}

	return firstNonEmpty
}

// truncate caps s at max characters without splitting a rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
