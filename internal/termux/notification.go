package termux

// Notification describes a termux-notification invocation.
type Notification struct {
	ID        string
	Title     string
	Content   string
	Ongoing   bool
	Priority  string
	AlertOnce bool
	Icon      string
	Button    *Button
}

// Button is a notification action that runs a shell command when tapped.
type Button struct {
	Label  string
	Action string
}

// Args returns the termux-notification command line for n.
func (n Notification) Args() []string {
	args := []string{"--id", n.ID, "--title", n.Title, "--content", n.Content}
	if n.Ongoing {
		args = append(args, "--ongoing")
	}
	if n.Priority != "" {
		args = append(args, "--priority", n.Priority)
	}
	if n.AlertOnce {
		args = append(args, "--alert-once")
	}
	if n.Icon != "" {
		args = append(args, "--icon", n.Icon)
	}
	if n.Button != nil {
		args = append(args, "--button1", n.Button.Label, "--button1-action", n.Button.Action)
	}
	return args
}
