package browser

import (
	"sort"

	"github.com/playwright-community/playwright-go"

	"ui_automation/domain/entities"
)

// toStorageState converts saved state into playwright context options.
func toStorageState(state *entities.SessionState) *playwright.OptionalStorageState {
	out := &playwright.OptionalStorageState{}
	for _, c := range state.Cookies {
		cookie := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(c.Path),
			Expires:  playwright.Float(c.Expires),
			HttpOnly: playwright.Bool(c.HTTPOnly),
			Secure:   playwright.Bool(c.Secure),
		}
		if c.SameSite != "" {
			sameSite := playwright.SameSiteAttribute(c.SameSite)
			cookie.SameSite = &sameSite
		}
		out.Cookies = append(out.Cookies, cookie)
	}
	for _, o := range state.Origins {
		origin := playwright.Origin{Origin: o.Origin}
		keys := make([]string, 0, len(o.LocalStorage))
		for k := range o.LocalStorage {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			origin.LocalStorage = append(origin.LocalStorage, playwright.NameValue{Name: k, Value: o.LocalStorage[k]})
		}
		out.Origins = append(out.Origins, origin)
	}
	return out
}

// fromStorageState converts a playwright context state into saved state.
func fromStorageState(state *playwright.StorageState) *entities.SessionState {
	out := &entities.SessionState{}
	if state == nil {
		return out
	}
	for _, c := range state.Cookies {
		cookie := entities.StoredCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			cookie.SameSite = string(*c.SameSite)
		}
		out.Cookies = append(out.Cookies, cookie)
	}
	for _, o := range state.Origins {
		storage := make(map[string]string, len(o.LocalStorage))
		for _, kv := range o.LocalStorage {
			storage[kv.Name] = kv.Value
		}
		out.Origins = append(out.Origins, entities.OriginStorage{Origin: o.Origin, LocalStorage: storage})
	}
	return out
}
