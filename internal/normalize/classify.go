// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"

	"github.com/pdiddy/docforge/pkg/types"
)

// UnclassifiedTag is assigned when no classification rule matches.
const UnclassifiedTag = "unclassified"

// DefaultClassificationRules is the built-in keyword→tag table, used when
// the configuration provides none.
var DefaultClassificationRules = []types.ClassificationRule{
	{Tag: "guide", Keywords: []string{"how to", "setup", "install", "getting started", "tutorial"}},
	{Tag: "reference", Keywords: []string{"reference", "api", "specification", "configuration", "parameters"}},
	{Tag: "policy", Keywords: []string{"policy", "governance", "compliance", "procedure"}},
	{Tag: "report", Keywords: []string{"report", "summary", "metrics", "review", "retrospective"}},
}

// Classify assigns content tags by keyword match over the title and body,
// case-insensitively. A document may match several rules; the result is a
// many-to-many tag assignment, in rule order, deduplicated. Documents
// matching nothing are tagged UnclassifiedTag.
func Classify(title, body string, rules []types.ClassificationRule) []string {
	if len(rules) == 0 {
		rules = DefaultClassificationRules
	}
	haystack := strings.ToLower(title + "\n" + body)

	var tags []string
	seen := map[string]bool{}
	for _, rule := range rules {
		if rule.Tag == "" || seen[rule.Tag] {
			continue
		}
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
				tags = append(tags, rule.Tag)
				seen[rule.Tag] = true
				break
			}
		}
	}
	if len(tags) == 0 {
		tags = []string{UnclassifiedTag}
	}
	return tags
}
