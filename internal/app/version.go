package app

const ServiceName = "student-tracker"

// Set via -ldflags during build:
//
//	go build -ldflags="-X 'github.com/HaroldK3/Student-Tracker/internal/app.Version=1.0.0'"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
