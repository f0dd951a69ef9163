// Package metrics exposes counters for registry queries and host installs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultCached  = "cached"
)

// Registry holds every modinstall collector
var Registry = prometheus.NewRegistry()

var (
	registryQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modinstall_registry_queries_total",
			Help: "Number of forge release queries by result.",
		},
		[]string{"result"},
	)
	installsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modinstall_installs_total",
			Help: "Number of install actions on hosts by kind and result.",
		},
		[]string{"kind", "result"},
	)
	versionResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modinstall_version_resolutions_total",
			Help: "Number of version requirement resolutions by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		registryQueriesTotal,
		installsTotal,
		versionResolutionsTotal,
	)
}

// RegistryQuery counts one forge query
func RegistryQuery(result string) {
	registryQueriesTotal.WithLabelValues(result).Inc()
}

// Install counts one install action
func Install(kind string, err error) {
	installsTotal.WithLabelValues(kind, resultOf(err)).Inc()
}

// Resolution counts one version requirement resolution
func Resolution(err error) {
	versionResolutionsTotal.WithLabelValues(resultOf(err)).Inc()
}

// WriteTextfile writes all metrics in the text exposition format, for
// the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

func resultOf(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
