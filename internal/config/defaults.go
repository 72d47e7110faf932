package config

const (
	// DefaultBucket matches the bucket name historically used for published docs.
	DefaultBucket        = "gtm-doctags"
	DefaultGCSEndpoint   = "storage.googleapis.com"
	DefaultRegion        = "auto"
	DefaultDirectory     = "./docs"
	DefaultGitAuthor     = "gtmdocs"
	DefaultGitEmail      = "gtmdocs@localhost"
	DefaultNotifySubject = "gtmdocs.export.completed"
	DefaultMetricsJob    = "gtmdocs"
	DefaultCron          = "0 6 * * *"
)

func applyDefaults(cfg *Config) {
	cfg.Source.Type = NormalizeSourceType(string(cfg.Source.Type))
	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceTypeAPI
	}

	st := &cfg.Storage
	st.Type = NormalizeStorageType(string(st.Type))
	if st.Type == "" {
		st.Type = StorageTypeGCS
	}
	if st.Bucket == "" {
		st.Bucket = DefaultBucket
	}
	if st.Type == StorageTypeGCS && st.Endpoint == "" {
		st.Endpoint = DefaultGCSEndpoint
	}
	if st.Region == "" {
		st.Region = DefaultRegion
	}
	if st.UseSSL == nil {
		useSSL := true
		st.UseSSL = &useSSL
	}
	if st.Directory == "" {
		st.Directory = DefaultDirectory
	}
	if st.Git.AuthorName == "" {
		st.Git.AuthorName = DefaultGitAuthor
	}
	if st.Git.AuthorEmail == "" {
		st.Git.AuthorEmail = DefaultGitEmail
	}

	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = DefaultMetricsJob
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = DefaultCron
	}
}
