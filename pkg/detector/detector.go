// Package detector derives page-level metadata for a snapshot: title and
// site from readability, domain hints from the URL and the language of the
// captured text.
package detector

import (
	"bytes"
	"net/url"
	"strings"
	"sync"

	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/ninja-snatch/models"
)

// minLanguageText is the shortest text worth running language detection on.
const minLanguageText = 20

var languages = []lingua.Language{
	lingua.English, lingua.German, lingua.French, lingua.Spanish, lingua.Italian,
	lingua.Portuguese, lingua.Dutch, lingua.Swedish, lingua.Polish, lingua.Russian,
	lingua.Japanese, lingua.Chinese, lingua.Korean, lingua.Arabic, lingua.Turkish,
}

var (
	detectorOnce sync.Once
	langDetector lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		langDetector = lingua.NewLanguageDetectorBuilder().FromLanguages(languages...).Build()
	})
	return langDetector
}

// Detect builds snapshot metadata. rawHTML is the whole page and text the
// visible text of the captured subtree. Readability failures leave the
// article fields empty.
func Detect(rawHTML []byte, pageURL *url.URL, text string) models.Metadata {
	var md models.Metadata

	if len(rawHTML) > 0 {
		rp := readability.NewParser()
		article, err := rp.Parse(bytes.NewReader(rawHTML), pageURL)
		if err == nil {
			md.Title = strings.TrimSpace(article.Title)
			md.SiteName = strings.TrimSpace(article.SiteName)
			md.Excerpt = strings.TrimSpace(article.Excerpt)
		}
	}

	if pageURL != nil && pageURL.Host != "" {
		md.DomainType = detectDomainType(pageURL)
		md.Country = detectCountry(pageURL)
	}

	md.Language, md.LanguageConfidence = DetectLanguage(text)
	return md
}

// DetectLanguage returns the ISO 639-1 code of text and the detector's
// confidence, or "" when text is too short or ambiguous.
func DetectLanguage(text string) (string, float64) {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) < minLanguageText {
		return "", 0
	}
	d := languageDetector()
	lang, ok := d.DetectLanguageOf(text)
	if !ok {
		return "", 0
	}
	conf := d.ComputeLanguageConfidence(text, lang)
	return strings.ToLower(lang.IsoCode639_1().String()), conf
}

// detectDomainType classifies the host.
func detectDomainType(u *url.URL) string {
	host := strings.ToLower(u.Hostname())

	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".mil") {
		return "gov"
	}
	if strings.HasSuffix(host, ".edu") {
		return "edu"
	}
	if host == "localhost" || strings.HasPrefix(host, "127.") {
		return "local"
	}
	for _, prefix := range []string{"docs.", "developer.", "developers."} {
		if strings.HasPrefix(host, prefix) {
			return "docs"
		}
	}
	if strings.HasPrefix(host, "m.") || strings.HasPrefix(host, "mobile.") {
		return "mobile"
	}
	return "commercial"
}

// detectCountry guesses a country from the TLD.
func detectCountry(u *url.URL) string {
	parts := strings.Split(strings.ToLower(u.Hostname()), ".")
	if len(parts) < 2 {
		return "unknown"
	}
	tld := parts[len(parts)-1]

	countries := map[string]string{
		"uk": "uk", "de": "de", "fr": "fr", "jp": "jp", "cn": "cn",
		"au": "au", "ca": "ca", "in": "in", "br": "br", "ru": "ru",
		"it": "it", "es": "es", "nl": "nl", "se": "se", "ch": "ch",
	}
	if country, ok := countries[tld]; ok {
		return country
	}
	if tld == "gov" || tld == "edu" || tld == "mil" {
		return "us"
	}
	return "unknown"
}
