package defn

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/temporalguard/contract"
	"github.com/yungbote/temporalguard/payload"
)

const policyProfileEnv = "TEMPORALGUARD_POLICY_PATH"

//go:embed policies.yaml
var policyProfileFS embed.FS

// fallback configuration used when YAML is missing or invalid
var fallbackProfile = profileRuntime{
	Activity: policyConfig{
		RequiredOptionKeys: []string{"RetryPolicy", "StartToCloseTimeout"},
		AbstractNameTokens: []string{"base"},
	},
	Workflow: policyConfig{
		RequiredOptionKeys: []string{"WorkflowExecutionTimeout", "WorkflowRunTimeout"},
		AbstractNameTokens: []string{"base"},
	},
}

type yamlPolicyProfile struct {
	Profile  string                     `yaml:"profile"`
	Version  int                        `yaml:"version"`
	Policies map[string]yamlPolicyEntry `yaml:"policies"`
}

type yamlPolicyEntry struct {
	RequiredOptionKeys []string `yaml:"required_option_keys"`
	AbstractNameTokens []string `yaml:"abstract_name_tokens"`
}

type policyConfig struct {
	RequiredOptionKeys []string
	AbstractNameTokens []string
}

type profileRuntime struct {
	Activity policyConfig
	Workflow policyConfig
}

var profileOnce sync.Once
var profileCache *profileRuntime
var profileErr error

func currentProfile() profileRuntime {
	profileOnce.Do(func() {
		profileCache, profileErr = loadProfile()
	})
	if profileErr != nil || profileCache == nil {
		return fallbackProfile
	}
	return *profileCache
}

// ActivityPolicy returns the built-in policy for activity definitions:
// marked methods must carry default call options, take exactly one model
// input and return one model value.
func ActivityPolicy() contract.Policy {
	return ActivityPolicyWith(payload.Models())
}

func ActivityPolicyWith(c contract.Classifier) contract.Policy {
	cfg := currentProfile().Activity
	return buildPolicy("activity_contract", TagActivity, cfg, c)
}

// WorkflowPolicy is the same contract pointed at workflow run methods;
// only the marker and the required option keys differ.
func WorkflowPolicy() contract.Policy {
	return WorkflowPolicyWith(payload.Models())
}

func WorkflowPolicyWith(c contract.Classifier) contract.Policy {
	cfg := currentProfile().Workflow
	return buildPolicy("workflow_contract", TagWorkflowRun, cfg, c)
}

func buildPolicy(name string, marker contract.Tag, cfg policyConfig, c contract.Classifier) contract.Policy {
	return contract.Policy{
		Name:               name,
		Marker:             marker,
		RequiredOptionKeys: cfg.RequiredOptionKeys,
		AbstractNameTokens: cfg.AbstractNameTokens,
		Rules: []contract.Rule{
			contract.DefaultOptionsRule(cfg.RequiredOptionKeys),
			contract.SingleInputRule(),
			contract.InputModelRule(c),
			contract.OutputModelRule(c),
		},
	}
}

func loadProfile() (*profileRuntime, error) {
	data, err := readPolicyProfile()
	if err != nil {
		return nil, err
	}

	var spec yamlPolicyProfile
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if err := validateProfile(&spec); err != nil {
		return nil, err
	}

	rt := fallbackProfile
	if entry, ok := spec.Policies["activity"]; ok {
		rt.Activity = mergePolicyConfig(rt.Activity, entry)
	}
	if entry, ok := spec.Policies["workflow"]; ok {
		rt.Workflow = mergePolicyConfig(rt.Workflow, entry)
	}
	return &rt, nil
}

func readPolicyProfile() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(policyProfileEnv)); path != "" {
		return os.ReadFile(path)
	}
	return policyProfileFS.ReadFile("policies.yaml")
}

func validateProfile(spec *yamlPolicyProfile) error {
	if spec == nil {
		return errors.New("missing profile")
	}
	if strings.TrimSpace(spec.Profile) != "temporalguard" {
		return fmt.Errorf("unexpected profile: %s", spec.Profile)
	}
	if len(spec.Policies) == 0 {
		return errors.New("no policies defined")
	}
	for name := range spec.Policies {
		switch strings.TrimSpace(name) {
		case "activity", "workflow":
		default:
			return fmt.Errorf("unknown policy: %s", name)
		}
	}
	return nil
}

func mergePolicyConfig(base policyConfig, entry yamlPolicyEntry) policyConfig {
	if keys := dedupeStrings(entry.RequiredOptionKeys); len(keys) > 0 {
		base.RequiredOptionKeys = keys
	}
	if tokens := dedupeStrings(entry.AbstractNameTokens); len(tokens) > 0 {
		base.AbstractNameTokens = tokens
	}
	return base
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
