package mockserver

import (
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var urlPattern = regexp.MustCompile(`^(https?://)([a-zA-Z0-9\-.]+\.[a-zA-Z]{2,})(:\d+)?(/\S*)?$`)

// IsURL reports whether input is analyzed as a URL rather than a topic.
func IsURL(input string) bool {
	return urlPattern.MatchString(strings.TrimSpace(input))
}

var trustedDomains = []string{
	"bbc.com", "bbc.co.uk", "reuters.com", "nytimes.com", "theguardian.com",
	"apnews.com", "npr.org", "washingtonpost.com", "bloomberg.com", "economist.com",
	"ft.com", "wsj.com", "wikipedia.org", "britannica.com", "nature.com",
	"science.org", "who.int", "cdc.gov", "nih.gov", "gov.uk", "europa.eu", "un.org",
	"snopes.com", "factcheck.org", "politifact.com", "fullfact.org", "abc.net.au",
	"cbsnews.com", "nbcnews.com", "abcnews.go.com", "time.com", "newsweek.com",
	"theatlantic.com", "vox.com", "propublica.org", "statista.com", "pewresearch.org",
}

var semiTrustedDomains = []string{
	"medium.com", "substack.com", "forbes.com", "businessinsider.com", "techcrunch.com",
	"wired.com", "arstechnica.com", "thehill.com", "axios.com", "politico.com",
	"slate.com", "salon.com", "huffpost.com", "vice.com", "buzzfeednews.com", "cnn.com",
	"foxnews.com", "msnbc.com", "usatoday.com", "latimes.com", "nypost.com",
	"dailymail.co.uk",
}

// topicTrust is the trust score of a topic with no scraped sources.
const topicTrust = 0.3

func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// TrustScore scores a URL between 0 and 1 from its scheme and a list of known outlets.
func TrustScore(raw string) float64 {
	score := 0.0
	if strings.HasPrefix(strings.ToLower(raw), "https://") {
		score += 0.2
	}
	host := domainOf(raw)
	switch {
	case host == "":
	case matchesDomain(host, trustedDomains):
		score += 0.8
	case matchesDomain(host, semiTrustedDomains):
		score += 0.4
	}
	return math.Min(score, 1.0)
}

var sentenceSplit = regexp.MustCompile(`[.!?]\s+`)

// sentences splits text on terminal punctuation and drops fragments of ten
// characters or fewer.
func sentences(text string) []string {
	var out []string
	rest := text
	for {
		loc := sentenceSplit.FindStringIndex(rest)
		if loc == nil {
			break
		}
		out = appendSentence(out, rest[:loc[0]+1])
		rest = rest[loc[1]:]
	}
	return appendSentence(out, rest)
}

func appendSentence(out []string, s string) []string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 10 {
		out = append(out, s)
	}
	return out
}

var (
	positiveWords = wordSet(`good great excellent positive success successful win wins
		approve approved benefit benefits improve improved safe support supports helpful
		hope happy strong growth gain gains praise praised celebrate recovery progress`)
	negativeWords = wordSet(`bad terrible awful negative fail failed failure lose loss
		collapse collapsed crisis danger dangerous fraud fake hoax scandal attack attacks
		kill killed death dead war threat threatens corrupt corruption disaster outrage
		panic fear angry hate lie lies lying destroy destroyed`)
	wordPattern = regexp.MustCompile(`[a-z']+`)
)

func wordSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(list) {
		set[w] = true
	}
	return set
}

// SentimentOf classifies each sentence as positive, neutral or negative by
// lexicon hits and returns whole-number percentages.
func SentimentOf(text string) (positive, neutral, negative float64) {
	list := sentences(text)
	if len(list) == 0 {
		return 0, 100, 0
	}
	var pos, neu, neg int
	for _, s := range list {
		balance := 0
		for _, w := range wordPattern.FindAllString(strings.ToLower(s), -1) {
			switch {
			case positiveWords[w]:
				balance++
			case negativeWords[w]:
				balance--
			}
		}
		switch {
		case balance > 0:
			pos++
		case balance < 0:
			neg++
		default:
			neu++
		}
	}
	pct := func(n int) float64 {
		return math.Round(float64(n) / float64(len(list)) * 100)
	}
	return pct(pos), pct(neu), pct(neg)
}

const (
	chunkWords = 200
	maxChunks  = 100
)

// Similarity is the mean pairwise Jaccard similarity of 200-word chunks of the
// texts, rounded to four places. Fewer than two chunks score 0.
func Similarity(texts []string) float64 {
	var chunks []map[string]bool
	for _, text := range texts {
		words := strings.Fields(strings.ToLower(text))
		for i := 0; i < len(words); i += chunkWords {
			end := min(i+chunkWords, len(words))
			chunk := words[i:end]
			if len(strings.Join(chunk, " ")) <= 20 {
				continue
			}
			set := make(map[string]bool, len(chunk))
			for _, w := range chunk {
				set[w] = true
			}
			chunks = append(chunks, set)
		}
	}
	if len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	if len(chunks) < 2 {
		return 0
	}

	var sum float64
	var pairs int
	for i := range chunks {
		for j := i + 1; j < len(chunks); j++ {
			sum += jaccard(chunks[i], chunks[j])
			pairs++
		}
	}
	return math.Round(sum/float64(pairs)*10000) / 10000
}

func jaccard(a, b map[string]bool) float64 {
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

var claimIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\d+`),
	regexp.MustCompile(`(?i)\b(according to|study|report|research|data|survey|found|showed|revealed)\b`),
	regexp.MustCompile(`(?i)\b(percent|million|billion|thousand|hundred)\b`),
	regexp.MustCompile(`(?i)\b(is|was|are|were|will be|has been|have been)\b.*\b(the|a)\b`),
	regexp.MustCompile(`(?i)\b(confirmed|denied|announced|stated|claimed|said)\b`),
	regexp.MustCompile(`(?i)\b(true|false|fake|real|hoax|myth|misleading|debunked)\b`),
	regexp.MustCompile(`(?i)\b(caused|causes|linked to|associated with|leads to|results in)\b`),
	regexp.MustCompile(`(?i)\b(first|largest|smallest|most|least|highest|lowest|best|worst)\b`),
}

const maxClaims = 5

// ExtractClaims picks up to five sentences that look like factual assertions.
// Near-duplicates are dropped. When nothing qualifies the whole text, cut to
// 300 characters, is the only claim.
func ExtractClaims(text string) []string {
	text = strings.TrimSpace(text)
	var claims []string
	for _, s := range sentences(text) {
		n := utf8.RuneCountInString(s)
		if n < 15 || n > 300 {
			continue
		}
		score := 0
		for _, p := range claimIndicators {
			if p.MatchString(s) {
				score++
			}
		}
		if score >= 2 && !nearDuplicate(claims, s) {
			claims = append(claims, s)
		}
	}
	if len(claims) == 0 {
		return []string{cut(text, 300)}
	}
	if len(claims) > maxClaims {
		claims = claims[:maxClaims]
	}
	return claims
}

func nearDuplicate(existing []string, claim string) bool {
	a := wordsOf(claim)
	for _, e := range existing {
		if jaccard(a, wordsOf(e)) > 0.7 {
			return true
		}
	}
	return false
}

func wordsOf(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

var entityPattern = regexp.MustCompile(`\b([A-Z][a-z]+ (?:[A-Z][a-z]+ )*[A-Z][a-z]+|[A-Z]{2,})\b`)

const maxEntities = 15

// ExtractEntities returns capitalized phrases and acronyms, in order of first appearance.
func ExtractEntities(text string) []string {
	text = cut(text, 5000)
	seen := make(map[string]bool)
	var out []string
	for _, m := range entityPattern.FindAllString(text, -1) {
		if seen[m] || len(m) <= 2 {
			continue
		}
		seen[m] = true
		out = append(out, m)
		if len(out) == maxEntities {
			break
		}
	}
	return out
}

// cut truncates s to at most n runes.
func cut(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// contentOf turns input into analyzable text. URLs are not fetched; their
// path segments stand in for the page content.
func contentOf(input string, isURL bool) string {
	if !isURL {
		return input
	}
	u, err := url.Parse(input)
	if err != nil {
		return input
	}
	replacer := strings.NewReplacer("/", " ", "-", " ", "_", " ", ".html", "", ".htm", "")
	words := strings.Join(strings.Fields(replacer.Replace(u.Path)), " ")
	if words == "" {
		return u.Hostname()
	}
	return words
}
