package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/gallery"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/metrics"
	"github.com/Zachkp/folio/internal/notify"
	"github.com/Zachkp/folio/internal/store"
)

// site wires the page, the contact form and the optional extras together.
type site struct {
	cfg        *config.Config
	logger     *zap.Logger
	gallery    *gallery.Gallery
	controller *contact.Controller
	notifier   notify.Notifier
	inbox      notify.Notifier // nil when db_path is empty
	store      *store.Store    // nil when db_path is empty
	metrics    *metrics.Metrics
	tracker    *tracker // nil when tracking is off
	admin      *admin   // nil when the admin pages are off
	now        func() time.Time
}

func newSite(cfg *config.Config, logger *zap.Logger, g *gallery.Gallery, st *store.Store) (*site, error) {
	s := &site{
		cfg:     cfg,
		logger:  logger,
		gallery: g,
		store:   st,
		metrics: metrics.New(),
		now:     time.Now,
	}

	var opts []contact.Option
	if cfg.ResetOnAccept {
		opts = append(opts, contact.WithResetOnAccept())
	}
	s.controller = contact.NewController(opts...)

	notifiers := notify.Multi{notify.Log{Logger: logger}}
	if cfg.MailEnabled() {
		mailer, err := notify.NewMailer(notify.MailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Pass,
			From:     cfg.SMTP.From,
			To:       cfg.ContactTo,
		})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, mailer)
	}
	s.notifier = notifiers
	if st != nil {
		s.inbox = notify.Store(st)
	}

	if st != nil && cfg.EnableTracking {
		s.tracker = newTracker(st, s.metrics, logger)
	}
	if cfg.AdminEnabled() && st != nil {
		a, err := newAdmin(cfg, st, s.tracker, logger)
		if err != nil {
			return nil, err
		}
		s.admin = a
	}
	return s, nil
}

func (s *site) routes() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(logging.Recoverer(s.logger), logging.RequestLogger(s.logger))
	if s.tracker != nil {
		r.Use(s.tracker.middleware())
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(staticFiles()))

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", s.page(newContactView(contact.NewForm())))
	})

	// HTMX contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact-form.html", newContactView(contact.NewForm()))
	})

	r.POST("/contact/edit", s.handleEdit)
	r.POST("/contact", s.handleSubmit)

	api := r.Group("/api")
	api.POST("/contact", s.handleSubmitJSON)
	api.GET("/projects", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.gallery.Projects())
	})

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", s.page(contactView{}))
	})
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	if s.admin != nil {
		s.admin.routes(r)
	}
	return r, nil
}

// pageData is what index.html and the other full pages render from.
type pageData struct {
	Title    string
	Nav      []navLink
	About    string
	Projects []gallery.Project
	Contact  contactView
	Owner    owner
}

type owner struct {
	Email string
	Phone string
}

func (s *site) page(cv contactView) pageData {
	return pageData{
		Title:    s.cfg.SiteTitle,
		Nav:      NavLinks,
		About:    AboutMe,
		Projects: s.gallery.Projects(),
		Contact:  cv,
		Owner:    owner{Email: s.cfg.OwnerEmail, Phone: s.cfg.OwnerPhone},
	}
}

// fieldView is one input of the rendered contact form.
type fieldView struct {
	Name        string
	Label       string
	Placeholder string
	Type        string
	Value       string
	Error       string
}

type contactView struct {
	Fields        []fieldView
	Accepted      bool
	AcceptedTitle string
	AcceptedBody  string
	Failed        string
}

func newFieldView(f contact.Form, field contact.Field) fieldView {
	fc := fieldCopy[string(field)]
	return fieldView{
		Name:        string(field),
		Label:       fc.Label,
		Placeholder: fc.Placeholder,
		Type:        fc.Type,
		Value:       f.Values.Get(field),
		Error:       f.Errors.Get(field),
	}
}

func newContactView(f contact.Form) contactView {
	cv := contactView{Fields: make([]fieldView, 0, len(contact.Fields))}
	for _, field := range contact.Fields {
		cv.Fields = append(cv.Fields, newFieldView(f, field))
	}
	return cv
}

// formFromRequest rebuilds the form the browser is showing: the current
// values plus whatever error messages are still on screen.
func formFromRequest(c *gin.Context) (contact.Form, error) {
	f := contact.NewForm()
	if err := c.ShouldBind(&f.Values); err != nil {
		return f, err
	}
	for _, field := range contact.Fields {
		if msg := c.PostForm("error_" + string(field)); msg != "" {
			_ = f.Errors.Set(field, msg)
		}
	}
	if !f.Errors.Empty() {
		f.Status = contact.Rejected
	}
	return f, nil
}

// handleEdit clears the edited field's error and returns its empty error slot.
func (s *site) handleEdit(c *gin.Context) {
	field, err := contact.ParseField(c.Query("field"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	f, err := formFromRequest(c)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid form data")
		return
	}
	next, err := s.controller.Edit(f, field, c.PostForm(string(field)))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	c.HTML(http.StatusOK, "error-slot", newFieldView(next, field))
}

// submit runs the submit transition and, when accepted, delivers the
// submission. It returns the form to render and the delivery error, if any.
func (s *site) submit(ctx context.Context, f contact.Form) (next contact.Form, accepted bool, sub contact.Submission, err error) {
	next, accepted = s.controller.Submit(f)
	if !accepted {
		s.metrics.Submission(metrics.OutcomeRejected, next.Errors)
		return next, false, sub, nil
	}

	sub = contact.NewSubmission(f.Values, s.now())
	kept := s.keep(ctx, sub)
	if err := s.notifier.Notify(ctx, sub); err != nil {
		if kept {
			// The inbox has it; asking the visitor to resend would duplicate it.
			s.logger.Warn("contact notification failed, submission kept in inbox",
				zap.String("id", sub.ID), zap.Error(err))
			s.metrics.Submission(metrics.OutcomeNotifyFailed, nil)
			return next, true, sub, nil
		}
		s.logger.Error("contact delivery failed", zap.String("id", sub.ID), zap.Error(err))
		s.metrics.Submission(metrics.OutcomeFailed, nil)
		// Keep what the visitor typed so they can try again.
		f.Errors = contact.ErrorState{}
		f.Status = contact.Editing
		return f, true, sub, err
	}
	s.metrics.Submission(metrics.OutcomeAccepted, nil)
	return next, true, sub, nil
}

// keep saves sub to the inbox, if there is one, and reports whether it did.
// A failed save is logged and left to the other notifiers.
func (s *site) keep(ctx context.Context, sub contact.Submission) bool {
	if s.inbox == nil {
		return false
	}
	if err := s.inbox.Notify(ctx, sub); err != nil {
		s.logger.Error("saving contact submission to inbox failed", zap.String("id", sub.ID), zap.Error(err))
		return false
	}
	return true
}

// Handle contact form submission with HTMX
func (s *site) handleSubmit(c *gin.Context) {
	f := contact.NewForm()
	if err := c.ShouldBind(&f.Values); err != nil {
		c.String(http.StatusBadRequest, "invalid form data")
		return
	}

	next, accepted, _, err := s.submit(c.Request.Context(), f)
	cv := newContactView(next)
	switch {
	case accepted && err != nil:
		cv.Failed = ContactDeliveryError
	case accepted:
		cv.Accepted = true
		cv.AcceptedTitle = ContactAcceptedTitle
		cv.AcceptedBody = ContactAcceptedBody
	}

	// Plain form posts (no JavaScript) get the whole page back.
	if c.GetHeader("HX-Request") == "" {
		c.HTML(http.StatusOK, "index.html", s.page(cv))
		return
	}
	c.HTML(http.StatusOK, "contact-form.html", cv)
}

type submitResponse struct {
	Accepted bool               `json:"accepted"`
	ID       string             `json:"id,omitempty"`
	Errors   contact.ErrorState `json:"errors"`
	Error    string             `json:"error,omitempty"`
}

func (s *site) handleSubmitJSON(c *gin.Context) {
	var values contact.FormState
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	f := contact.NewForm()
	f.Values = values

	next, accepted, sub, err := s.submit(c.Request.Context(), f)
	resp := submitResponse{Accepted: accepted, Errors: next.Errors}
	switch {
	case !accepted:
		c.JSON(http.StatusUnprocessableEntity, resp)
	case err != nil:
		resp.Error = ContactDeliveryError
		c.JSON(http.StatusBadGateway, resp)
	default:
		resp.ID = sub.ID
		c.JSON(http.StatusOK, resp)
	}
}

func (s *site) handleHealth(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "checks": gin.H{"db": "error: " + err.Error()}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": gin.H{"db": "ok"}})
}
