package entities

import "time"

// Browser engines a run can launch
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// Viewport is the page size in CSS pixels
type Viewport struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// LaunchOptions is handed to before:browser:launch hooks, which may change it
// before the browser starts.
type LaunchOptions struct {
	Browser        string
	Headless       bool
	SlowMo         time.Duration
	Args           []string
	Viewport       Viewport
	BaseURL        string
	CommandTimeout time.Duration
	PageLoad       time.Duration
	State          *SessionState
}

// HasArg reports whether arg is already among the launch arguments.
func (o *LaunchOptions) HasArg(arg string) bool {
	for _, a := range o.Args {
		if a == arg {
			return true
		}
	}
	return false
}

// SessionState is the persisted cookie and storage state of a browser context
type SessionState struct {
	Cookies []StoredCookie  `json:"cookies"`
	Origins []OriginStorage `json:"origins"`
}

// StoredCookie is a cookie as saved between runs
type StoredCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// OriginStorage is the local storage of one origin
type OriginStorage struct {
	Origin       string            `json:"origin"`
	LocalStorage map[string]string `json:"localStorage"`
}
