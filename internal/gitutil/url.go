package gitutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	prURLRegex = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)
	prRefRegex = regexp.MustCompile(`^refs/pull/(\d+)/(?:merge|head)$`)
)

// ParsePullRequestURL parses a GitHub Pull Request URL and extracts the owner, repo, and PR number.
// Supported format: https://github.com/{owner}/{repo}/pull/{number}
func ParsePullRequestURL(url string) (owner, repo string, prNumber int, err error) {
	url = strings.TrimSuffix(url, "/")

	matches := prURLRegex.FindStringSubmatch(url)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("invalid pull request URL format: %s", url)
	}

	prNumber, err = strconv.Atoi(matches[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid PR number '%s': %w", matches[3], err)
	}

	return matches[1], matches[2], prNumber, nil
}

// ParseRepository splits an "owner/name" repository slug, as found in GITHUB_REPOSITORY.
func ParseRepository(fullName string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", fullName)
	}
	return owner, repo, nil
}

// PRNumberFromRef extracts the pull request number from a ref such as
// refs/pull/123/merge, which is what GitHub Actions sets for pull_request events.
func PRNumberFromRef(ref string) (int, error) {
	matches := prRefRegex.FindStringSubmatch(strings.TrimSpace(ref))
	if len(matches) != 2 {
		return 0, fmt.Errorf("ref %q is not a pull request ref", ref)
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid PR number in ref %q: %w", ref, err)
	}
	return n, nil
}
