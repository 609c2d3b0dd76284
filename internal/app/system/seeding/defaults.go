package seeding

import "github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"

// DefaultServices is the initial service catalogue.
func DefaultServices() []models.Service {
	return []models.Service{
		{
			Title:       "Pre-employment Checks",
			Description: "Verify credentials, employment history, and professional integrity.",
			Icon:        "UserCheck",
			Category:    models.ServiceCategorySecurity,
			Order:       1,
			IsActive:    true,
		},
		{
			Title:       "Enhanced Due Diligence",
			Description: "Deep-dive research for C-level executives and sensitive roles.",
			Icon:        "Search",
			Category:    models.ServiceCategoryIntelligence,
			Order:       2,
			IsActive:    true,
		},
		{
			Title:       "Vendor & Partner Screening",
			Description: "Assess the legitimacy and reputation of new business partners.",
			Icon:        "Building2",
			Category:    models.ServiceCategorySME,
			Order:       3,
			IsActive:    true,
		},
		{
			Title:       "SME Due Diligence",
			Description: "Tailored risk assessments designed for small and mid-sized enterprises.",
			Icon:        "Shield",
			Category:    models.ServiceCategorySME,
			Order:       4,
			IsActive:    true,
		},
	}
}

// DefaultFAQs is the initial FAQ list.
func DefaultFAQs() []models.FAQ {
	qa := []struct{ q, a, cat string }{
		{"Is pre-employment screening legal in Europe?",
			"Yes, when conducted properly. We strictly follow GDPR and national laws, ensuring checks are relevant to the role and proportional.",
			"Legal"},
		{"How long does a background check take?",
			"Standard pre-employment checks typically take 2–5 business days. Enhanced due diligence for senior roles may take slightly longer.",
			"General"},
		{"What information do I need to provide?",
			"We typically need the candidate’s resume/CV and signed consent. We will provide you with the necessary consent forms.",
			"General"},
		{"Do you work with small businesses?",
			"Absolutely. Our services are designed for SMEs. You can outsource background checks on a case-by-case basis.",
			"Business"},
		{"What happens if you find something negative?",
			"We report the factual findings to you confidentially, allowing you to make an informed, risk-based hiring decision.",
			"Process"},
	}
	out := make([]models.FAQ, 0, len(qa))
	for i, x := range qa {
		out = append(out, models.FAQ{Question: x.q, Answer: x.a, Category: x.cat, Order: i + 1, IsActive: true})
	}
	return out
}

// DefaultTestimonials is the initial set of client quotes.
func DefaultTestimonials() []models.Testimonial {
	return []models.Testimonial{
		{
			Name: "Thomas Müller", Role: "Global HR Director", Company: "EuroFinance Corp",
			CompanyType: "Financial Services", Location: "Zurich / London", Rating: 5,
			Text:      "Their attention to international data laws gave us the confidence to centralize our screening. Navigating diverse regulatory landscapes, from GDPR in Europe to local laws in Asia, saved us months of internal legal work.",
			Highlight: "Global Compliance", Industry: "Finance",
			Image:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop",
			IsActive: true,
		},
		{
			Name: "Sarah Jenkins", Role: "Head of Talent Acquisition", Company: "Innovate Tech",
			CompanyType: "Technology", Location: "San Francisco", Rating: 5,
			Text:      "Fast, accurate, and incredibly responsive. They helped us scale our engineering team by verifying degrees and employment across four continents.",
			Highlight: "International Scale", Industry: "Technology",
			Image:    "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=150&h=150&fit=crop",
			IsActive: true,
		},
		{
			Name: "Andreas Schmidt", Role: "Chief Legal Officer", Company: "AutoMotion Group",
			CompanyType: "Automotive", Location: "Munich", Rating: 5,
			Text:      "Navigating Works Council requirements in Germany while maintaining global standards was a challenge until we partnered with them. Every check is documented with a clear lawful basis, making audits simple.",
			Highlight: "Legal Precision", Industry: "Automotive",
			Image:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop",
			IsActive: true,
		},
		{
			Name: "Dr. Elena Rossi", Role: "Compliance & Risk Lead", Company: "PharmaGlobal",
			CompanyType: "Pharmaceuticals", Location: "Milan", Rating: 5,
			Text:      "They provide the depth of due diligence we require for executive hires. Their investigative research goes beyond simple database checks.",
			Highlight: "Executive Vetting", Industry: "Pharmaceuticals",
			Image:    "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=150&h=150&fit=crop",
			IsActive: true,
		},
		{
			Name: "Michael Chen", Role: "VP of People Operations", Company: "LogisticsWorld",
			CompanyType: "Logistics", Location: "Singapore", Rating: 5,
			Text:      "The automated API integration allowed us to cut our time-to-hire by 40% while maintaining strict background checks.",
			Highlight: "Speed & Tech", Industry: "Logistics",
			Image:    "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=150&h=150&fit=crop",
			IsActive: true,
		},
		{
			Name: "Lisa Fischer", Role: "Founder", Company: "NextGen Startups",
			CompanyType: "Venture Capital", Location: "Berlin", Rating: 5,
			Text:      "As we expand into new markets, we need a partner who understands local nuances. They provide advice on what is legally permissible to ask in each new country we enter.",
			Highlight: "Strategic Partnership", Industry: "Venture Capital",
			Image:    "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&h=150&fit=crop",
			IsActive: true,
		},
	}
}

// DefaultSiteSettings is the first saved settings version.
func DefaultSiteSettings() models.SiteSettings {
	return models.SiteSettings{
		SiteName: "Checkmate Security",
		Email:    "info@checkmatesis.com",
		Phone:    "+216 XX XXX XXX",
		Address:  "International Financial District",
		LinkedIn: "https://linkedin.com/company/checkmate",
	}
}

// DefaultPageContent is the initial set of editable page blocks.
func DefaultPageContent() []models.PageContent {
	return []models.PageContent{
		{Page: "home", Section: "hero", Content: models.ObjectValue(map[string]any{
			"title": "Pre-Employment Due Diligence & Smart Hiring",
		})},
		{Page: "contact", Section: "support", Content: models.ObjectValue(map[string]any{
			"hours": "24/7 Global Support",
		})},
	}
}
