// Package locale holds the user-visible strings that the program itself
// produces: fallback results, module titles, severity labels and the staged
// progress messages. Everything else is written by the model.
package locale

import (
	"fmt"
	"strings"

	"github.com/helmcode/seo-ai/pkg/model"
)

type Locale string

const (
	English Locale = "en"
	Turkish Locale = "tr"
)

const Default = English

// Parse accepts "en", "tr" or their English names.
func Parse(s string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "en", "english":
		return English, nil
	case "tr", "turkish":
		return Turkish, nil
	default:
		return "", fmt.Errorf("unsupported language: %s (supported: en, tr)", s)
	}
}

// Messages is the string table of one locale.
type Messages struct {
	// Language is the name the model is asked to answer in.
	Language string

	ConnectionError string
	FixUnavailable  string
	FixPlaceholder  string
	Unspecified     string

	ModuleTitles       map[model.Module]string
	ModuleDescriptions map[model.Module]string
	SeverityLabels     map[model.Severity]string

	// ProgressSteps are shown before each analysis; %s is the domain.
	ProgressSteps []string

	ReportTitle     string
	ReportSubtitle  string
	AverageScore    string
	CompletedLabel  string
	IssuesLabel     string
	CriticalLabel   string
	DateLabel       string
	ScoreLabel      string
	Recommendation  string
	DetectedCode    string
	GeneratedFooter string
	DateFormat      string
}

func (l Locale) Messages() *Messages {
	if l == Turkish {
		return &turkish
	}
	return &english
}

func (m *Messages) ModuleTitle(mod model.Module) string {
	if t, ok := m.ModuleTitles[mod]; ok {
		return t
	}
	return string(mod)
}

func (m *Messages) SeverityLabel(s model.Severity) string {
	if l, ok := m.SeverityLabels[s]; ok {
		return l
	}
	return string(s)
}

// Steps returns the progress steps with the domain filled in.
func (m *Messages) Steps(domain string) []string {
	steps := make([]string, len(m.ProgressSteps))
	for i, step := range m.ProgressSteps {
		if strings.Contains(step, "%s") {
			step = fmt.Sprintf(step, domain)
		}
		steps[i] = step
	}
	return steps
}

var english = Messages{
	Language:        "English",
	ConnectionError: "A connection error occurred during the analysis. Please try again.",
	FixUnavailable:  "Could not generate an automatic fix.",
	FixPlaceholder:  "// Sorry, no automatic code could be generated for this issue.",
	Unspecified:     "Unspecified",
	ModuleTitles: map[model.Module]string{
		model.ModuleOnPage:    "On-Page SEO",
		model.ModuleOffPage:   "Off-Page SEO",
		model.ModuleTechnical: "Technical SEO",
		model.ModuleContent:   "Content Analysis",
		model.ModuleBlackHat:  "Black Hat & Security",
		model.ModuleLocal:     "Local SEO",
	},
	ModuleDescriptions: map[model.Module]string{
		model.ModuleOnPage:    "HTML structure, meta tags and heading analysis",
		model.ModuleOffPage:   "Backlink profile and authority analysis",
		model.ModuleTechnical: "Schema, performance and crawl issues",
		model.ModuleContent:   "Readability, keywords and originality",
		model.ModuleBlackHat:  "Detection of risky and spam techniques",
		model.ModuleLocal:     "Google Maps and local business optimization",
	},
	SeverityLabels: map[model.Severity]string{
		model.SeverityCritical: "CRITICAL",
		model.SeverityHigh:     "HIGH",
		model.SeverityMedium:   "MEDIUM",
		model.SeverityLow:      "LOW",
		model.SeverityPassed:   "PASSED",
	},
	ProgressSteps: []string{
		"Connecting to %s...",
		"Parsing HTML structure...",
		"Analyzing meta tags and headers...",
		"Checking server response headers...",
		"Evaluating content quality...",
		"Running AI heuristics...",
	},
	ReportTitle:     "SEO Audit Report",
	ReportSubtitle:  "Comprehensive Analysis Report",
	AverageScore:    "Overall Average",
	CompletedLabel:  "Completed Modules",
	IssuesLabel:     "Issues Found",
	CriticalLabel:   "Critical Errors",
	DateLabel:       "Date",
	ScoreLabel:      "Score",
	Recommendation:  "Recommendation",
	DetectedCode:    "Detected Code",
	GeneratedFooter: "Generated automatically by seo-ai",
	DateFormat:      "2006-01-02",
}

var turkish = Messages{
	Language:        "Turkish",
	ConnectionError: "Analiz sırasında bir bağlantı hatası oluştu. Lütfen tekrar deneyin.",
	FixUnavailable:  "Otomatik düzeltme oluşturulamadı.",
	FixPlaceholder:  "// Üzgünüz, bu sorun için otomatik kod oluşturulamadı.",
	Unspecified:     "Belirtilmemiş",
	ModuleTitles: map[model.Module]string{
		model.ModuleOnPage:    "Site İçi (On-Page) SEO",
		model.ModuleOffPage:   "Site Dışı (Off-Page) SEO",
		model.ModuleTechnical: "Teknik SEO",
		model.ModuleContent:   "İçerik Analizi",
		model.ModuleBlackHat:  "Black Hat & Güvenlik",
		model.ModuleLocal:     "Yerel (Local) SEO",
	},
	ModuleDescriptions: map[model.Module]string{
		model.ModuleOnPage:    "HTML yapısı, meta etiketler ve başlık analizi",
		model.ModuleOffPage:   "Backlink profili ve otorite analizi",
		model.ModuleTechnical: "Schema, performans ve tarama sorunları",
		model.ModuleContent:   "Okunabilirlik, anahtar kelime ve özgünlük",
		model.ModuleBlackHat:  "Riskli ve spam tekniklerin tespiti",
		model.ModuleLocal:     "Google Maps ve yerel işletme optimizasyonu",
	},
	SeverityLabels: map[model.Severity]string{
		model.SeverityCritical: "KRİTİK",
		model.SeverityHigh:     "YÜKSEK",
		model.SeverityMedium:   "ORTA",
		model.SeverityLow:      "DÜŞÜK",
		model.SeverityPassed:   "GEÇTİ",
	},
	ProgressSteps: []string{
		"%s adresine bağlanılıyor...",
		"HTML yapısı ayrıştırılıyor...",
		"Meta etiketleri ve başlıklar analiz ediliyor...",
		"Sunucu yanıt başlıkları kontrol ediliyor...",
		"İçerik kalitesi değerlendiriliyor...",
		"Yapay zeka sezgileri çalıştırılıyor...",
	},
	ReportTitle:     "SEO Denetim Raporu",
	ReportSubtitle:  "Kapsamlı Analiz Raporu",
	AverageScore:    "Genel Ortalama",
	CompletedLabel:  "Tamamlanan Modüller",
	IssuesLabel:     "Tespit Edilen Sorunlar",
	CriticalLabel:   "Kritik Hatalar",
	DateLabel:       "Tarih",
	ScoreLabel:      "Skor",
	Recommendation:  "Öneri",
	DetectedCode:    "Tespit Edilen Kod",
	GeneratedFooter: "seo-ai tarafından otomatik oluşturulmuştur",
	DateFormat:      "02.01.2006",
}
