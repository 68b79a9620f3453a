package useragent

import (
	"fmt"
	"sort"
)

// Legacy / non-standard user-agents. Choose your poison.
var Menu = map[string]string{
	"ps4":          "Mozilla/5.0 (PlayStation 4 3.11) AppleWebKit/537.73 (KHTML, like Gecko)",
	"ps5":          "Mozilla/5.0 (PlayStation 5 4.03) AppleWebKit/605.1.15 (KHTML, like Gecko)",
	"psvita":       "Mozilla/5.0 (PlayStation Vita 3.60) AppleWebKit/537.73 (KHTML, like Gecko)",
	"xbox-one":     "Xbox/One/10.0.10586.1100 Mozilla/5.0",
	"switch":       "Mozilla/5.0 (Nintendo Switch; WifiWebAuthApplet) AppleWebKit/601.6 (KHTML, like Gecko)",
	"wiiu":         "Mozilla/5.0 (Nintendo WiiU) AppleWebKit/536.30 (KHTML, like Gecko)",
	"blackberry-6": "BlackBerry9700/5.0.0.862 Profile/MIDP-2.1 Configuration/CLDC-1.1 VendorID/331",
	"symbian-s60":  "Mozilla/5.0 (SymbianOS/9.4; Series60/5.0 Nokia5800) AppleWebKit/525 (KHTML, like Gecko) BrowserNG/7.1.12344",
	"smart-tv":     "Mozilla/5.0 (SMART-TV; Linux; Tizen 3.0) AppleWebKit/537.36",
	"amazon-echo":  "Dalvik/2.1.0 (Linux; U; Android 5.1; AFTS Build/LMY47O)",
	"sonos":        "Linux UPnP/1.0 Sonos/34.16-37101 (ZP120)",
	"iot":          "iot-device/1.0 (Linux; U; Android 9; en-us)",
}

const Default = "ps4"

// Lookup resolves a menu name to its full signature string.
func Lookup(name string) (string, error) {
	if name == "" {
		name = Default
	}
	signature, ok := Menu[name]
	if !ok {
		return "", fmt.Errorf("unknown user-agent %q (run 'agents' to list the menu)", name)
	}
	return signature, nil
}

// Names returns the menu names in a stable order.
func Names() []string {
	names := make([]string, 0, len(Menu))
	for name := range Menu {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
