/*
Package observability turns engine lifecycle hooks into signals operators can
watch: Prometheus counters and histograms, and structured log lines.

Both helpers return a domain.LifecycleHooks value; combine them with
LifecycleHooks.Merge and pass the result to cascade.WithLifecycleHooks.
*/
package observability
