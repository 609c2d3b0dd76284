package content

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/blogs"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/faqs"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/services"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/testimonials"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/htmlsanitize"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func activeOnly(*http.Request) bson.M { return bson.M{"is_active": true} }

type serviceInput struct {
	Title       string `json:"title" validate:"required,max=200" label:"Title"`
	Description string `json:"description" validate:"required,max=2000" label:"Description"`
	Icon        string `json:"icon" validate:"max=50" label:"Icon"`
	Category    string `json:"category" validate:"max=100" label:"Category"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"is_active"`
	Revision    int64  `json:"revision"`
}

// Services builds the /api/services resource.
func Services(st *services.Store) Resource[models.Service, *models.Service] {
	return Resource[models.Service, *models.Service]{
		Kind:    "service",
		Store:   st.Store,
		Public:  activeOnly,
		Visible: func(s *models.Service) bool { return s.IsActive },
		Bind: func(r *http.Request) (*models.Service, int64, map[string]string, error) {
			var in serviceInput
			fields, err := decode(r, &in)
			if err != nil || fields != nil {
				return nil, 0, fields, err
			}
			s := &models.Service{
				Title:       in.Title,
				Description: in.Description,
				Icon:        in.Icon,
				Category:    in.Category,
				Order:       in.Order,
				IsActive:    boolOr(in.IsActive, true),
			}
			services.Normalize(s)
			return s, in.Revision, requireTrimmed(map[string]string{
				"title":       s.Title,
				"description": s.Description,
			}), nil
		},
		Set:   services.UpdateFields,
		Label: func(s *models.Service) string { return s.Title },
	}
}

type faqInput struct {
	Question string `json:"question" validate:"required,max=500" label:"Question"`
	Answer   string `json:"answer" validate:"required,max=5000" label:"Answer"`
	Category string `json:"category" validate:"max=100" label:"Category"`
	Order    int    `json:"order"`
	IsActive *bool  `json:"is_active"`
	Revision int64  `json:"revision"`
}

// FAQs builds the /api/faqs resource. Anonymous lists accept ?category=.
func FAQs(st *faqs.Store) Resource[models.FAQ, *models.FAQ] {
	return Resource[models.FAQ, *models.FAQ]{
		Kind:  "faq",
		Store: st.Store,
		Public: func(r *http.Request) bson.M {
			f := bson.M{"is_active": true}
			if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
				f["category"] = c
			}
			return f
		},
		Visible: func(f *models.FAQ) bool { return f.IsActive },
		Bind: func(r *http.Request) (*models.FAQ, int64, map[string]string, error) {
			var in faqInput
			fields, err := decode(r, &in)
			if err != nil || fields != nil {
				return nil, 0, fields, err
			}
			f := &models.FAQ{
				Question: strings.TrimSpace(in.Question),
				Answer:   strings.TrimSpace(in.Answer),
				Category: strings.TrimSpace(in.Category),
				Order:    in.Order,
				IsActive: boolOr(in.IsActive, true),
			}
			return f, in.Revision, requireTrimmed(map[string]string{
				"question": f.Question,
				"answer":   f.Answer,
			}), nil
		},
		Set:   faqs.UpdateFields,
		Label: func(f *models.FAQ) string { return f.Question },
	}
}

type testimonialInput struct {
	Name        string `json:"name" validate:"required,max=100" label:"Name"`
	Role        string `json:"role" validate:"required,max=100" label:"Role"`
	Company     string `json:"company" validate:"required,max=200" label:"Company"`
	CompanyType string `json:"company_type" validate:"max=100" label:"Company type"`
	Location    string `json:"location" validate:"max=100" label:"Location"`
	Text        string `json:"text" validate:"required,max=2000" label:"Text"`
	Image       string `json:"image" validate:"imageref" label:"Image"`
	Rating      int    `json:"rating"`
	Highlight   string `json:"highlight" validate:"max=200" label:"Highlight"`
	Industry    string `json:"industry" validate:"max=100" label:"Industry"`
	IsActive    *bool  `json:"is_active"`
	Revision    int64  `json:"revision"`
}

// Testimonials builds the /api/testimonials resource. Quote text is
// stored as plain text.
func Testimonials(st *testimonials.Store) Resource[models.Testimonial, *models.Testimonial] {
	return Resource[models.Testimonial, *models.Testimonial]{
		Kind:    "testimonial",
		Store:   st.Store,
		Public:  activeOnly,
		Visible: func(t *models.Testimonial) bool { return t.IsActive },
		Bind: func(r *http.Request) (*models.Testimonial, int64, map[string]string, error) {
			var in testimonialInput
			fields, err := decode(r, &in)
			if err != nil || fields != nil {
				return nil, 0, fields, err
			}
			t := &models.Testimonial{
				Name:        in.Name,
				Role:        in.Role,
				Company:     in.Company,
				CompanyType: strings.TrimSpace(in.CompanyType),
				Location:    strings.TrimSpace(in.Location),
				Text:        htmlsanitize.Text(in.Text),
				Image:       strings.TrimSpace(in.Image),
				Rating:      in.Rating,
				Highlight:   strings.TrimSpace(in.Highlight),
				Industry:    strings.TrimSpace(in.Industry),
				IsActive:    boolOr(in.IsActive, true),
			}
			testimonials.Normalize(t)
			return t, in.Revision, requireTrimmed(map[string]string{
				"name":    t.Name,
				"role":    t.Role,
				"company": t.Company,
				"text":    t.Text,
			}), nil
		},
		Set:   testimonials.UpdateFields,
		Label: func(t *models.Testimonial) string { return t.Name + ", " + t.Company },
	}
}

type blogInput struct {
	Title    string    `json:"title" validate:"required,max=200" label:"Title"`
	Slug     string    `json:"slug" validate:"max=200" label:"Slug"`
	Content  string    `json:"content" validate:"required,max=100000" label:"Content"`
	Image    string    `json:"image" validate:"required,imageref" label:"Image"`
	Author   string    `json:"author" validate:"required,max=100" label:"Author"`
	Category string    `json:"category" validate:"required,max=100" label:"Category"`
	Date     time.Time `json:"date"`
	Revision int64     `json:"revision"`
}

// Blogs builds the /api/blogs resource. GET /{id} accepts an id or a slug;
// lists accept ?category=, ?limit= and ?page=. Content is sanitized HTML;
// plain text is converted to paragraphs.
func Blogs(st *blogs.Store) Resource[models.BlogPost, *models.BlogPost] {
	byCategory := func(r *http.Request) bson.M {
		f := bson.M{}
		if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
			f["category"] = c
		}
		return f
	}
	return Resource[models.BlogPost, *models.BlogPost]{
		Kind:   "blog",
		Store:  st.Store,
		Public: byCategory,
		Admin:  byCategory,
		Lookup: func(ctx context.Context, key string) (*models.BlogPost, error) {
			return st.GetByIDOrSlug(ctx, key)
		},
		Bind: func(r *http.Request) (*models.BlogPost, int64, map[string]string, error) {
			var in blogInput
			fields, err := decode(r, &in)
			if err != nil || fields != nil {
				return nil, 0, fields, err
			}
			p := &models.BlogPost{
				Title:    in.Title,
				Slug:     in.Slug,
				Content:  htmlsanitize.PrepareContent(in.Content),
				Image:    in.Image,
				Author:   in.Author,
				Category: in.Category,
				Date:     in.Date,
			}
			blogs.Normalize(p, time.Now())
			fields = requireTrimmed(map[string]string{
				"title":    p.Title,
				"content":  strings.TrimSpace(p.Content),
				"author":   p.Author,
				"category": p.Category,
			})
			if p.Slug == "" {
				if fields == nil {
					fields = map[string]string{}
				}
				fields["slug"] = "Slug could not be derived from the title."
			}
			return p, in.Revision, fields, nil
		},
		Set:   blogs.UpdateFields,
		Label: func(p *models.BlogPost) string { return p.Slug },
		Paged: true,
	}
}

// requireTrimmed reports fields that are blank once trimmed; the validator
// only sees the raw value.
func requireTrimmed(vals map[string]string) map[string]string {
	var out map[string]string
	for k, v := range vals {
		if strings.TrimSpace(v) != "" {
			continue
		}
		if out == nil {
			out = map[string]string{}
		}
		out[k] = strings.ToUpper(k[:1]) + strings.ReplaceAll(k[1:], "_", " ") + " is required."
	}
	return out
}
