package robots

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRobotsTxtExactAgentBeatsWildcard(t *testing.T) {
	raw := `
User-agent: *
Disallow: /private

User-agent: vertexcrawl
Disallow: /
Allow: /public
Crawl-delay: 2
`
	rs := ParseRobotsTxt(raw, "vertexcrawl/1.0")
	assert.Equal(t, DecisionAllow, rs.Evaluate("/public/page"))
	assert.Equal(t, DecisionDisallow, rs.Evaluate("/secret"))
	assert.Equal(t, int64(2e9), rs.crawlDelay.Nanoseconds())
}

func TestParseRobotsTxtWildcardFallback(t *testing.T) {
	raw := `
User-agent: *
Disallow: /private
`
	rs := ParseRobotsTxt(raw, "vertexcrawl/1.0")
	assert.Equal(t, DecisionDisallow, rs.Evaluate("/private/page"))
	assert.Equal(t, DecisionAllow, rs.Evaluate("/public"))
}

func TestParseRobotsTxtEmptyDisallowAllowsEverything(t *testing.T) {
	raw := `
User-agent: *
Disallow:
`
	rs := ParseRobotsTxt(raw, "vertexcrawl/1.0")
	assert.Equal(t, DecisionAllow, rs.Evaluate("/anything"))
}

func TestParseRobotsTxtNoMatchingGroupAllowsEverything(t *testing.T) {
	rs := ParseRobotsTxt("User-agent: other-bot\nDisallow: /\n", "vertexcrawl/1.0")
	assert.Equal(t, DecisionAllow, rs.Evaluate("/anything"))
}
