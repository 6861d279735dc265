// Package manager contains the connection model, SSH config import and
// persistence layers for sshman.
package manager

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultSSHPort is the port used when a profile or config block does
// not specify one.
const DefaultSSHPort = 22

// Profile is one saved SSH connection.
//
// User and IdentityFile are optional; the empty string means unset and
// is persisted as JSON null.
type Profile struct {
	Name         string
	Hostname     string
	User         string
	Port         int
	IdentityFile string
}

// profileJSON is the wire form of Profile. Optional fields use pointers
// so the persisted document carries explicit nulls rather than omitting
// keys.
type profileJSON struct {
	Name         string  `json:"name"`
	Hostname     string  `json:"hostname"`
	User         *string `json:"user"`
	Port         int     `json:"port"`
	IdentityFile *string `json:"identity_file"`
}

// NewProfile validates and constructs a profile. Name and Hostname must
// be non-empty after trimming; Port must be in 1..65535.
func NewProfile(name, hostname, user string, port int, identityFile string) (Profile, error) {
	name = strings.TrimSpace(name)
	hostname = strings.TrimSpace(hostname)
	user = strings.TrimSpace(user)
	identityFile = strings.TrimSpace(identityFile)

	if name == "" {
		return Profile{}, fmt.Errorf("profile name must not be empty")
	}
	if hostname == "" {
		return Profile{}, fmt.Errorf("profile hostname must not be empty")
	}
	if port < 1 || port > 65535 {
		return Profile{}, fmt.Errorf("port %d out of range (1-65535)", port)
	}

	return Profile{
		Name:         name,
		Hostname:     hostname,
		User:         user,
		Port:         port,
		IdentityFile: identityFile,
	}, nil
}

// Validate reports whether the profile satisfies the construction rules.
func (p Profile) Validate() error {
	_, err := NewProfile(p.Name, p.Hostname, p.User, p.Port, p.IdentityFile)
	return err
}

// SSHCommand builds the argv to launch ssh for this profile. The -p flag
// is emitted only for non-default ports, and -i only when an identity
// file is set.
func (p Profile) SSHCommand() []string {
	args := []string{"ssh"}
	if p.Port != DefaultSSHPort {
		args = append(args, "-p", strconv.Itoa(p.Port))
	}
	if p.IdentityFile != "" {
		args = append(args, "-i", p.IdentityFile)
	}
	if p.User != "" {
		args = append(args, p.User+"@"+p.Hostname)
	} else {
		args = append(args, p.Hostname)
	}
	return args
}

// DisplayTarget renders the human-readable destination, e.g.
// "root@10.0.0.5:2222". The port suffix appears only for non-default
// ports.
func (p Profile) DisplayTarget() string {
	target := p.Hostname
	if p.User != "" {
		target = p.User + "@" + target
	}
	if p.Port != DefaultSSHPort {
		target += ":" + strconv.Itoa(p.Port)
	}
	return target
}

// MarshalJSON emits the wire form with nulls for unset optional fields.
func (p Profile) MarshalJSON() ([]byte, error) {
	w := profileJSON{
		Name:     p.Name,
		Hostname: p.Hostname,
		Port:     p.Port,
	}
	if p.User != "" {
		u := p.User
		w.User = &u
	}
	if p.IdentityFile != "" {
		f := p.IdentityFile
		w.IdentityFile = &f
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts the wire form, mapping null optionals back to
// empty strings.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var w profileJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Name = w.Name
	p.Hostname = w.Hostname
	p.Port = w.Port
	p.User = ""
	if w.User != nil {
		p.User = *w.User
	}
	p.IdentityFile = ""
	if w.IdentityFile != nil {
		p.IdentityFile = *w.IdentityFile
	}
	return nil
}
