package config

import "github.com/spf13/pflag"

// AddGlobalFlags registers flags shared by every command.
func AddGlobalFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "JSON config file")
	fs.String("env-file", ".env", "dotenv file with ORNATE_* variables")
	fs.StringP("log", "l", "", "log file path (default: stdout/stderr only)")
}

// AddAPIFlags registers the collection service flags.
func AddAPIFlags(fs *pflag.FlagSet) {
	d := Defaults().API
	fs.StringP("api-addr", "a", d.Addr, "listen address")
	fs.StringP("db", "d", d.DBPath, "SQLite database path")
	fs.String("public-url", d.PublicURL, "externally reachable base URL of this service")
	fs.String("image-dir", d.ImageDir, "directory for uploaded photos")
	fs.String("s3-bucket", "", "store photos in this S3 bucket instead of the image directory")
	fs.String("s3-region", d.S3.Region, "S3 region")
	fs.String("s3-endpoint", "", "S3-compatible endpoint, e.g. http://127.0.0.1:9000")
	fs.String("s3-access-key", "", "S3 access key")
	fs.String("s3-secret-key", "", "S3 secret key")
	fs.String("s3-public-url", "", "base URL photos are readable under")
}

// AddWebFlags registers the front-end flags.
func AddWebFlags(fs *pflag.FlagSet) {
	d := Defaults().Web
	fs.StringP("web-addr", "a", d.Addr, "listen address")
	fs.String("api-url", d.CollaboratorURL, "collection service base URL; empty keeps the collection locally")
	fs.String("local-db", d.LocalDBPath, "SQLite database for the local collection")
	fs.String("filter-mode", d.FilterMode, "where searches run: local or remote")
	fs.Duration("timeout", d.RequestTimeout.Duration(), "timeout for each collection service call")
}
