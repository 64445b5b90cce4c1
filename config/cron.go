package config

import (
	"imarket.GO/cron/jobs"
)

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

var CronJobs = map[string]CronJob{
	"catalogrefresh": {Schedule: "@every 15m", Job: jobs.CatalogRefreshJob},
	// Add more jobs here
}
