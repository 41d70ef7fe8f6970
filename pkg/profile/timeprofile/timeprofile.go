package timeprofile

import (
	"time"

	"github.com/sirupsen/logrus"
)

// TimeProfile measures the wall clock duration of a named section
type TimeProfile struct {
	Name               string
	StartTime, EndTime time.Time
	Duration           time.Duration
}

func Start(name string) TimeProfile {
	return TimeProfile{StartTime: time.Now(), Name: name}
}

// TilNow returns the duration from the start time to now
func (p *TimeProfile) TilNow() time.Duration {
	return time.Since(p.StartTime)
}

// Stop sets the end time and returns the measured duration
func (p *TimeProfile) Stop() time.Duration {
	p.EndTime = time.Now()
	p.Duration = p.EndTime.Sub(p.StartTime)
	return p.Duration
}

// StopAndLog stops the profile and logs the duration at info level
func (p *TimeProfile) StopAndLog(logger logrus.FieldLogger) time.Duration {
	duration := p.Stop()
	logger.WithField("duration", duration.String()).Infof("[profile] %s", p.Name)
	return duration
}
