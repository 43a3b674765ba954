// internal/config/model.go
//
// Typed configuration model for TechHub.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                           : dotenv values,
//   • `conf/global.yaml`                        : primary static file,
//   • `TECHHUB_`-prefixed environment overrides : highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client by `ResolveSecrets`, so downstream packages
// never see Vault URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
}

//
// Forms section
//

// Forms tunes the registration engine.
//
// `Dir` points at an optional directory of YAML form definitions that
// override the built-in ones by ID.  `SubmitTimeout` bounds the single
// outbound request made per submission.  `MinFill` and `MaxAge` form the
// timing window a rendered form must be posted within.
type Forms struct {
	Dir           string        `koanf:"dir"`
	SubmitTimeout time.Duration `koanf:"submit_timeout" validate:"required,gt=0"`
	MinFill       time.Duration `koanf:"min_fill"       validate:"gte=0"`
	MaxAge        time.Duration `koanf:"max_age"        validate:"required,gt=0"`
	RejectBots    bool          `koanf:"reject_bots"`
}

//
// Security section
//

// Security carries the CSRF signing key, used verbatim as HMAC key material
// (32 characters or more recommended).  Empty means “generate an ephemeral
// key at boot”.  A `vault:mount/path#key` reference is resolved before use.
type Security struct {
	CSRFKey string `koanf:"csrf_key"`
}

//
// Log section
//

// Log controls the zap core.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

//
// Geo section
//

// Geo points at an optional GeoLite2-City database.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// View section
//

// View lets operators override embedded templates from disk.
type View struct {
	OverrideDir string `koanf:"override_dir"`
}

//
// Routes section
//

// Routes maps friendly alias paths to canonical paths.  Mode is one of
// “absolute” (aliases ignored), “alias” (unknown paths 404), or “both”.
type Routes struct {
	Mode    string            `koanf:"mode"    validate:"omitempty,oneof=absolute alias both"`
	Aliases map[string]string `koanf:"aliases" validate:"dive,keys,startswith=/,endkeys,startswith=/"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // TECHHUB_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Forms    Forms    `koanf:"forms"`
	Security Security `koanf:"security"`
	Log      Log      `koanf:"log"`
	Geo      Geo      `koanf:"geo"`
	View     View     `koanf:"view"`
	Routes   Routes   `koanf:"routes"`
	Debug    bool     `koanf:"debug"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
