//go:build !windows
// +build !windows

package power

import (
	"context"
	"time"
)

const transitionDelay = 15 * time.Second

func methodsFor(action Action, _ bool) []Method {
	switch action {
	case Sleep:
		return []Method{
			{
				Name:      "systemctl suspend",
				Available: available("systemctl"),
				Invoke:    command("systemctl", "suspend"),
				PostDelay: 5 * time.Second,
			},
			{
				Name:      "pmset sleepnow",
				Available: available("pmset"),
				Invoke:    command("pmset", "sleepnow"),
				PostDelay: 5 * time.Second,
			},
		}
	case Restart:
		return []Method{
			{
				Name:      "shutdown -r now",
				Available: available("shutdown"),
				Invoke:    command("shutdown", "-r", "now"),
				PostDelay: transitionDelay,
				Succeeded: never,
			},
			{
				Name:      "reboot",
				Available: available("reboot"),
				Invoke:    command("reboot"),
				PostDelay: transitionDelay,
				Succeeded: never,
			},
		}
	case Shutdown:
		return []Method{
			{
				Name:      "shutdown -h now",
				Available: available("shutdown"),
				Invoke:    command("shutdown", "-h", "now"),
				PostDelay: transitionDelay,
				Succeeded: never,
			},
			{
				Name:      "poweroff",
				Available: available("poweroff"),
				Invoke:    command("poweroff"),
				PostDelay: transitionDelay,
				Succeeded: never,
			},
		}
	}
	return nil
}

// lastResortFor has no extra recovery outside Windows; the method lists above
// already cover the native tools.
func lastResortFor(_ Action) func(ctx context.Context) error {
	return nil
}
