package urlhandler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL normalizes a URL string, ensuring it has a scheme, a valid
// host, and no surrounding whitespace.
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errors.New("URL is empty or only whitespace")
	}

	// Add scheme if missing
	if !strings.Contains(trimmedURL, "://") && !strings.HasPrefix(trimmedURL, "//") {
		trimmedURL = "https://" + trimmedURL
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", trimmedURL, err)
	}

	if parsedURL.Host == "" {
		return "", errors.New("URL lacks a valid hostname")
	}

	return parsedURL.String(), nil
}

// ExtractDomain derives the snapshot namespace for a source URL: the
// lowercased host component without port.
func ExtractDomain(rawURL string) (string, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	parsedURL, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", normalized, err)
	}

	hostname := parsedURL.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("URL has no hostname component: %s", rawURL)
	}

	return strings.ToLower(hostname), nil
}

// ValidateURLFormat validates URL format using net/url parsing (for config
// and registry input validation)
func ValidateURLFormat(rawURL string) error {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return fmt.Errorf("URL is empty")
	}

	parsed, err := url.ParseRequestURI(trimmedURL)
	if err != nil {
		return fmt.Errorf("invalid URL format '%s': %w", trimmedURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme '%s' in '%s'", parsed.Scheme, trimmedURL)
	}

	return nil
}
