// Package celogin defines the core data model shared across the ACF
// decode, validation, and authorization pipeline: versions, ACF types,
// authority levels, and the tagged AcfUserFields result record.
package celogin

import "time"

// AcfVersion is the accepted payload schema version.
type AcfVersion int

const (
	AcfVersionUnknown AcfVersion = 0
	AcfVersion1       AcfVersion = 1
	AcfVersion2       AcfVersion = 2
)

// AcfType selects which tagged variant of AcfUserFields is populated.
// Version 1 ACFs are always AcfTypeService.
type AcfType string

const (
	AcfTypeInvalid      AcfType = ""
	AcfTypeService      AcfType = "service"
	AcfTypeAdminReset   AcfType = "administrative"
	AcfTypeResourceDump AcfType = "resourcedump"
	AcfTypeBmcShell     AcfType = "bmcshell"
)

// ServiceAuthority is the authority level granted by a service ACF, derived
// from the matched machine entry's Framework EC string.
type ServiceAuthority int

const (
	AuthorityNone ServiceAuthority = 0
	AuthorityUser ServiceAuthority = 10
	AuthorityCE   ServiceAuthority = 20
	AuthorityDev  ServiceAuthority = 30
)

func (a ServiceAuthority) String() string {
	switch a {
	case AuthorityNone:
		return "None"
	case AuthorityUser:
		return "User"
	case AuthorityCE:
		return "CE"
	case AuthorityDev:
		return "Dev"
	default:
		return "Unknown"
	}
}

// Wire-level constants shared across the pipeline.
const (
	// UnsetSerial is the wildcard machine serial number: it matches any
	// device serial, including one that is blank or unreadable.
	UnsetSerial = "UNSET"

	// BlankSerial is the literal a device reports when its serial number
	// property exists but was never programmed.
	BlankSerial = "       " // 7 ASCII spaces

	AdminAuthCodeMaxLen      = 256
	MaxAsciiScriptFileLength = 1024

	DefaultPBKDF2Iterations = 100000
)

// MachineEntry is one element of the payload's "machines" array.
type MachineEntry struct {
	SerialNumber string
	FrameworkEc  string
}

// ServiceFields carries the type-specific payload for AcfTypeService.
type ServiceFields struct {
	Authority ServiceAuthority
}

// AdminResetFields carries the type-specific payload for AcfTypeAdminReset.
type AdminResetFields struct {
	AuthCode []byte // decoded, <= AdminAuthCodeMaxLen bytes
}

// ResourceDumpFields carries the type-specific payload for AcfTypeResourceDump.
type ResourceDumpFields struct {
	AsciiScriptFile []byte // <= MaxAsciiScriptFileLength bytes
}

// BmcShellFields carries the type-specific payload for AcfTypeBmcShell.
type BmcShellFields struct {
	AsciiScriptFile []byte // <= MaxAsciiScriptFileLength bytes
	BmcTimeout      uint32
	IssueBmcDump    bool
}

// AcfUserFields is the tagged output record of the authorization pipeline.
// The celoginauth entry points populate exactly one of the type-specific
// fields, selected by Type; a record built from AcfMetadata alone (as
// acf-agentd's verify path does) has none of them set.
type AcfUserFields struct {
	Version            AcfVersion
	Type               AcfType
	ExpirationTimeUnix int64

	Service      *ServiceFields
	AdminReset   *AdminResetFields
	ResourceDump *ResourceDumpFields
	BmcShell     *BmcShellFields

	// ReplayIdPresent and ReplayId reflect what was carried on the wire,
	// before any replay policy has been applied.
	ReplayIdPresent bool
	ReplayId        uint64
}

// ExpirationTime returns the expiration instant as a time.Time in UTC.
func (f AcfUserFields) ExpirationTime() time.Time {
	return time.Unix(f.ExpirationTimeUnix, 0).UTC()
}

// AcfMetadata is the lightweight "describe this ACF" result returned by
// extraction flows that do not check a password or touch replay state.
type AcfMetadata struct {
	Version         AcfVersion
	Type            AcfType
	ExpirationTime  time.Time
	HasReplayId     bool
}

// NormalizeSerial applies the device-serial normalization rule used at the
// authentication boundary: an empty or blank serial (BlankSerial) is
// rewritten to the UnsetSerial wildcard before matching.
func NormalizeSerial(serial string) string {
	if serial == "" || serial == BlankSerial {
		return UnsetSerial
	}
	return serial
}

// AuthorityFromFrameworkEc maps a machine entry's Framework EC string to a
// ServiceAuthority. Unknown strings are rejected outright: there is no
// partial-credit mapping.
func AuthorityFromFrameworkEc(frameworkEc string) (ServiceAuthority, bool) {
	switch frameworkEc {
	case "PowerVM P10 Development", "PowerVM P11 Development":
		return AuthorityDev, true
	case "PowerVM P10 Service", "PowerVM P11 Service":
		return AuthorityCE, true
	default:
		return AuthorityNone, false
	}
}
