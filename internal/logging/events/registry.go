package events

import "github.com/atomicstack/shell-sync/internal/logging"

type RegistryTracer struct{}

type PrefsTracer struct{}

var (
	Registry = RegistryTracer{}
	Prefs    = PrefsTracer{}
)

func (RegistryTracer) Add(url string, accepted bool) {
	logging.Trace("registry.add", map[string]interface{}{"url": url, "accepted": accepted})
}

func (RegistryTracer) Remove(url string) {
	logging.Trace("registry.remove", map[string]interface{}{"url": url})
}

func (RegistryTracer) Activate(url string) {
	logging.Trace("registry.activate", map[string]interface{}{"url": url})
}

func (RegistryTracer) Reset(count int) {
	logging.Trace("registry.reset", map[string]interface{}{"count": count})
}

func (PrefsTracer) Set(key, value string) {
	logging.Trace("prefs.set", map[string]interface{}{"key": key, "value": value})
}

func (PrefsTracer) Reload(path string, keys int) {
	logging.Trace("prefs.reload", map[string]interface{}{"path": path, "keys": keys})
}

func (RegistryTracer) Trust(url string) {
	logging.Trace("certificates.trust", map[string]interface{}{"url": url})
}

func (RegistryTracer) ClearCertificates(count int) {
	logging.Trace("certificates.clear", map[string]interface{}{"count": count})
}
