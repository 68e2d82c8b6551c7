// Package engine binds the corpus, validator, rules engine and differ into
// the operation surface served to tool-calling hosts and the CLI. An Engine
// is bound to one data root; reloading against a new root means building a
// new Engine.
package engine

import (
	"fmt"
	"path"
	"strings"

	"github.com/draupnir/draupnir/internal/corpus"
	"github.com/draupnir/draupnir/internal/differ"
	"github.com/draupnir/draupnir/internal/models"
	"github.com/draupnir/draupnir/internal/rules"
	"github.com/draupnir/draupnir/internal/validator"
)

// DefaultPolicyGlob selects the YAML files a policy scan considers.
const DefaultPolicyGlob = "**/*.{yml,yaml}"

type Engine struct {
	corpus *corpus.Corpus
	rules  *rules.Engine
}

func New(dataDir string) (*Engine, error) {
	c, err := corpus.New(dataDir)
	if err != nil {
		return nil, err
	}
	r, err := rules.NewEngine()
	if err != nil {
		return nil, err
	}
	return &Engine{corpus: c, rules: r}, nil
}

func (e *Engine) Root() string {
	return e.corpus.Root()
}

// Healthcheck reports liveness plus the bound data root.
func (e *Engine) Healthcheck() string {
	return fmt.Sprintf("OK: data_dir=%s", e.corpus.Root())
}

// List returns the corpus files matching pattern; an empty pattern matches
// everything.
func (e *Engine) List(pattern string) ([]string, error) {
	return e.corpus.List(pattern)
}

// ReadText returns a file's text. Fails with corpus.ErrAccessDenied,
// corpus.ErrNotFound or corpus.ErrRead.
func (e *Engine) ReadText(path string) (string, error) {
	return e.corpus.ReadText(path)
}

// Search returns every line matching query across files selected by
// pathGlob.
func (e *Engine) Search(query, pathGlob string) ([]corpus.SearchMatch, error) {
	return e.corpus.Search(query, pathGlob)
}

// ListPolicies returns the YAML files whose kind is a recognized policy
// kind. Unparseable files are skipped.
func (e *Engine) ListPolicies(pathGlob string) ([]string, error) {
	if pathGlob == "" {
		pathGlob = DefaultPolicyGlob
	}
	files, err := e.corpus.Files()
	if err != nil {
		return nil, err
	}

	hits := []string{}
	for _, rel := range files {
		if !corpus.Matches(rel, pathGlob) {
			continue
		}
		if !yamlExt(rel) {
			continue
		}
		doc, err := e.parse(rel)
		if err != nil {
			continue
		}
		if kind, _ := doc.Get("kind").Str(); models.RecognizedKind(kind) {
			hits = append(hits, rel)
		}
	}
	return hits, nil
}

// Validate loads, parses and validates one named policy file. Read and
// parse failures are hard errors here, unlike during corpus scans.
func (e *Engine) Validate(path string) (models.ValidationReport, error) {
	doc, err := e.parse(path)
	if err != nil {
		return models.ValidationReport{}, err
	}
	return validator.Validate(path, doc), nil
}

// GenerateTemplate renders a policy skeleton as YAML.
func (e *Engine) GenerateTemplate(app, namespace string, ingressPorts, egressFQDNs []string) (string, error) {
	return validator.RenderTemplate(validator.GenerateTemplate(app, namespace, ingressPorts, egressFQDNs))
}

// ScanPosture aggregates zero-trust posture over every matching document.
func (e *Engine) ScanPosture(pathGlob string) (models.PostureReport, error) {
	if pathGlob == "" {
		pathGlob = DefaultPolicyGlob
	}
	entries, err := e.entries()
	if err != nil {
		return models.PostureReport{}, err
	}
	return validator.ScanPosture(entries, pathGlob), nil
}

// Diff compares two policy files structurally.
func (e *Engine) Diff(pathA, pathB string) (*differ.Result, error) {
	a, err := e.parse(pathA)
	if err != nil {
		return nil, err
	}
	b, err := e.parse(pathB)
	if err != nil {
		return nil, err
	}
	return differ.Compare(pathA, pathB, a, b)
}

// RuleEvaluation is the rules outcome for one document.
type RuleEvaluation struct {
	Path    string              `json:"path"`
	Results []models.RuleResult `json:"results"`
}

// EvaluateRules runs an org-rules config over every recognized policy
// document matching pathGlob.
func (e *Engine) EvaluateRules(config *models.RulesConfig, pathGlob string) ([]RuleEvaluation, error) {
	if pathGlob == "" {
		pathGlob = DefaultPolicyGlob
	}

	paths, err := e.ListPolicies(pathGlob)
	if err != nil {
		return nil, err
	}

	evaluations := make([]RuleEvaluation, 0, len(paths))
	for _, rel := range paths {
		doc, err := e.parse(rel)
		if err != nil {
			continue
		}
		report := validator.Validate(rel, doc)
		posture := validator.ScanPosture([]validator.Entry{{Path: rel, Doc: doc}}, pathGlob)

		var detail models.PostureDetail
		if len(posture.Details) > 0 {
			detail = posture.Details[0]
		}

		input := rules.BuildInput(doc, report, detail)
		results, err := e.rules.Evaluate(config, input)
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, RuleEvaluation{Path: rel, Results: results})
	}
	return evaluations, nil
}

// entries loads the whole corpus as posture-scan candidates. Read and parse
// failures ride along in the entry.
func (e *Engine) entries() ([]validator.Entry, error) {
	files, err := e.corpus.Files()
	if err != nil {
		return nil, err
	}
	entries := make([]validator.Entry, 0, len(files))
	for _, rel := range files {
		if !yamlExt(rel) {
			entries = append(entries, validator.Entry{Path: rel})
			continue
		}
		doc, err := e.parse(rel)
		entries = append(entries, validator.Entry{Path: rel, Doc: doc, Err: err})
	}
	return entries, nil
}

// parse reads and decodes one document, mapping decode failures to
// corpus.ErrParse.
func (e *Engine) parse(rel string) (*models.Node, error) {
	text, err := e.corpus.ReadText(rel)
	if err != nil {
		return nil, err
	}
	doc, err := models.ParseDocument(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", corpus.ErrParse, rel, err)
	}
	return doc, nil
}

func yamlExt(rel string) bool {
	ext := strings.ToLower(path.Ext(rel))
	return ext == ".yaml" || ext == ".yml"
}
