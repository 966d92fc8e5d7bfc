// Package services orchestrates the two pipelines behind the HTTP
// transport: DashboardService owns the indicators pipeline and its
// snapshot cache, ElectionService owns the synthetic election dataset.
package services
