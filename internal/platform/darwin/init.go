//go:build darwin && cgo

package darwin

import "github.com/HarishgunaS/sisypho-sdk/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Reader:   NewReader(),
			Tap:      NewTap(),
			Observer: NewObserver(),
		}, nil
	}
	platform.RequestPermissionsFunc = RequestPermissions
}
