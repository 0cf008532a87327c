// Package portal implements the booking.Driver contract against the real
// parking portal over HTTP. One Client is one isolated session: it carries its
// own cookie jar and must not be reused across runs.
package portal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/example/parking-scheduler/internal/booking"
	"github.com/example/parking-scheduler/internal/dateutil"
)

const (
	defaultBaseURL      = "https://parking.example.com"
	defaultStepTimeout  = 30 * time.Second
	defaultPollInterval = 500 * time.Millisecond
	userAgent           = "Mozilla/5.0 (X11; Linux x86_64) parksched/1.0"
)

// Page markers the portal renders. Classification is marker-based: we never
// parse the DOM, we only check that the expected fragment is present.
const (
	markerDashboard   = `id="dashboard"`
	markerLoginError  = `id="login-error"`
	markerBookingForm = `id="booking-form"`
	markerCalendar    = `id="booking-calendar"`
	markerSharedFull  = `id="zone-shared-full"`
	markerConfirmed   = `id="booking-confirmed"`
	markerNoSpaces    = `id="booking-no-spaces"`
	markerSubmitError = `id="booking-error"`
)

var tokenRe = regexp.MustCompile(`name="__token"\s+value="([^"]*)"`)

// session state, advanced strictly in call order.
type state int

const (
	stateLoggedOut state = iota
	stateOnForm
	stateDateSelected
	stateZoneResolved
	stateClosed
)

type Config struct {
	BaseURL      string
	StepTimeout  time.Duration
	PollInterval time.Duration
	Logger       *slog.Logger
}

type Client struct {
	hc   *http.Client
	base string
	log  *slog.Logger

	stepTimeout  time.Duration
	pollInterval time.Duration

	state state
	zone  booking.Zone
}

// New creates a fresh portal session with an empty cookie jar.
func New(cfg Config) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "cookie jar")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	stepTimeout := cfg.StepTimeout
	if stepTimeout <= 0 {
		stepTimeout = defaultStepTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		hc:           &http.Client{Jar: jar, Timeout: stepTimeout},
		base:         base,
		log:          log,
		stepTimeout:  stepTimeout,
		pollInterval: pollInterval,
		state:        stateLoggedOut,
		zone:         booking.ZoneShared,
	}, nil
}

// NewSessionFactory returns a booking.SessionFactory that opens a fresh
// Client per attempt.
func NewSessionFactory(cfg Config) booking.SessionFactory {
	return func(ctx context.Context) (booking.Driver, error) {
		return New(cfg)
	}
}

// Login authenticates and navigates to the booking form. The portal lands on
// a dashboard after login; the extra hop to the form is hidden here so
// callers only ever see "on the booking form, or failed".
func (c *Client) Login(ctx context.Context, creds booking.Credentials) error {
	if err := c.expect(stateLoggedOut, "login"); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.stepTimeout)
	defer cancel()

	page, err := c.get(ctx, "/login")
	if err != nil {
		return errors.Mark(errors.Wrap(err, "login page"), booking.ErrAuthentication)
	}

	form := url.Values{
		"username": {creds.Username},
		"password": {creds.Password},
	}
	if m := tokenRe.FindStringSubmatch(page); m != nil {
		form.Set("__token", m[1])
	}

	page, err = c.postForm(ctx, "/login", form)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "login submit"), booking.ErrAuthentication)
	}
	if strings.Contains(page, markerLoginError) || !strings.Contains(page, markerDashboard) {
		return errors.Mark(errors.New("portal rejected credentials"), booking.ErrAuthentication)
	}

	// Dashboard quirk: the booking form is one navigation further.
	page, err = c.get(ctx, "/bookings/new")
	if err != nil {
		return errors.Mark(errors.Wrap(err, "open booking form"), booking.ErrAuthentication)
	}
	if !strings.Contains(page, markerBookingForm) {
		return errors.Mark(errors.New("booking form marker missing after login"), booking.ErrAuthentication)
	}

	c.state = stateOnForm
	return nil
}

// SelectDate activates the calendar cell for date. The calendar overlay
// renders asynchronously, so we poll until it is interactive before looking
// for the day cell, and reload the form afterwards to dismiss the overlay.
func (c *Client) SelectDate(ctx context.Context, date time.Time) error {
	if err := c.expect(stateOnForm, "select date"); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.stepTimeout)
	defer cancel()

	page, err := c.waitFor(ctx, "/bookings/new/calendar", markerCalendar)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "calendar did not become interactive"), booking.ErrUIInteraction)
	}

	cell := `data-day="` + dateutil.DayOfMonth(date) + `"`
	if !strings.Contains(page, cell) {
		return errors.Mark(errors.Newf("calendar cell for day %s not found", dateutil.DayOfMonth(date)), booking.ErrUIInteraction)
	}

	form := url.Values{"date": {dateutil.Format(date)}}
	if _, err := c.postForm(ctx, "/bookings/new/date", form); err != nil {
		return errors.Mark(errors.Wrap(err, "activate calendar cell"), booking.ErrUIInteraction)
	}

	// Reload the form: the overlay would otherwise obscure the zone selector.
	if _, err := c.get(ctx, "/bookings/new"); err != nil {
		return errors.Mark(errors.Wrap(err, "dismiss calendar overlay"), booking.ErrUIInteraction)
	}

	c.state = stateDateSelected
	return nil
}

// ResolveZoneAvailability checks whether the shared zone reports no
// availability and, if so, switches the form to the paid zone. Absence of the
// indicator means the shared zone is fine. Best effort: only transport
// failures surface as errors.
func (c *Client) ResolveZoneAvailability(ctx context.Context) (booking.Zone, error) {
	if err := c.expect(stateDateSelected, "resolve zone"); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, c.stepTimeout)
	defer cancel()

	page, err := c.get(ctx, "/bookings/new")
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "read booking form"), booking.ErrUIInteraction)
	}

	if strings.Contains(page, markerSharedFull) {
		c.log.Info("shared zone full, falling back to paid zone")
		form := url.Values{"zone": {string(booking.ZonePaid)}}
		if _, err := c.postForm(ctx, "/bookings/new/zone", form); err != nil {
			return "", errors.Mark(errors.Wrap(err, "switch zone"), booking.ErrUIInteraction)
		}
		c.zone = booking.ZonePaid
	}

	c.state = stateZoneResolved
	return c.zone, nil
}

// Submit posts the request and waits for whichever outcome indicator the
// portal renders first. Exactly one indicator classifies the result; none
// within the bound, or more than one at once, fails closed.
func (c *Client) Submit(ctx context.Context) (booking.Outcome, error) {
	if err := c.expect(stateZoneResolved, "submit"); err != nil {
		return booking.OutcomeFailed, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.stepTimeout)
	defer cancel()

	if _, err := c.postForm(ctx, "/bookings", url.Values{"confirm": {"1"}}); err != nil {
		return booking.OutcomeFailed, errors.Mark(errors.Wrap(err, "submit booking"), booking.ErrUIInteraction)
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		page, err := c.get(ctx, "/bookings/status")
		if err == nil {
			if outcome, ok := classify(page); ok {
				return outcome, nil
			}
		}

		select {
		case <-ctx.Done():
			return booking.OutcomeFailed, errors.Mark(
				errors.New("no outcome indicator appeared before the deadline"), booking.ErrTimeout)
		case <-ticker.C:
		}
	}
}

// classify maps the status page to an outcome. Indicators are checked in
// precedence order (confirmed, no spaces, error); a page matching more than
// one is ambiguous and fails closed.
func classify(page string) (booking.Outcome, bool) {
	matched := 0
	outcome := booking.OutcomeFailed
	if strings.Contains(page, markerConfirmed) {
		matched++
		outcome = booking.OutcomeBooked
	}
	if strings.Contains(page, markerNoSpaces) {
		if matched == 0 {
			outcome = booking.OutcomeNoSpace
		}
		matched++
	}
	if strings.Contains(page, markerSubmitError) {
		if matched == 0 {
			outcome = booking.OutcomeFailed
		}
		matched++
	}
	switch matched {
	case 0:
		return booking.OutcomeFailed, false
	case 1:
		return outcome, true
	default:
		return booking.OutcomeFailed, true
	}
}

// Close releases the session. Safe to call at any state.
func (c *Client) Close() error {
	c.state = stateClosed
	c.hc.CloseIdleConnections()
	return nil
}

func (c *Client) expect(want state, op string) error {
	if c.state != want {
		return errors.Mark(errors.Newf("%s called out of order (session state %d)", op, c.state), booking.ErrUIInteraction)
	}
	return nil
}

// waitFor polls path until its body contains marker or ctx expires.
func (c *Client) waitFor(ctx context.Context, path, marker string) (string, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		page, err := c.get(ctx, path)
		if err == nil && strings.Contains(page, marker) {
			return page, nil
		}

		select {
		case <-ctx.Done():
			if err != nil {
				return "", err
			}
			return "", errors.Mark(errors.Newf("marker %s never appeared", marker), booking.ErrTimeout)
		case <-ticker.C:
		}
	}
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (string, error) {
	return c.do(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errors.Mark(err, booking.ErrTimeout)
		}
		return "", err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode >= 400 {
		return "", errors.Newf("%s %s: status %d", method, path, res.StatusCode)
	}
	return string(b), nil
}
