package comment

// Badge is a short label shown next to the author name.
type Badge struct {
	Text string
	Kind BadgeKind
}

type BadgeKind int

const (
	BadgeOwner BadgeKind = iota
	BadgeSelf
	BadgeOrigin
)

const (
	ownerBadgeText  = "UP主"
	selfBadgeText   = "你"
	originBadgeText = "Iwara4a"
)

// RoleBadge returns the single role badge for c, if any.
func RoleBadge(c Comment) (Badge, bool) {
	switch c.Poster {
	case PosterOwner:
		return Badge{Text: ownerBadgeText, Kind: BadgeOwner}, true
	case PosterSelf:
		return Badge{Text: selfBadgeText, Kind: BadgeSelf}, true
	}
	return Badge{}, false
}

// OriginBadge marks comments posted through this client.
func OriginBadge(c Comment) (Badge, bool) {
	if !c.FromApp {
		return Badge{}, false
	}
	return Badge{Text: originBadgeText, Kind: BadgeOrigin}, true
}

// Badges returns the role badge followed by the origin badge.
func Badges(c Comment) []Badge {
	var out []Badge
	if b, ok := RoleBadge(c); ok {
		out = append(out, b)
	}
	if b, ok := OriginBadge(c); ok {
		out = append(out, b)
	}
	return out
}

// ClassifyPoster resolves the role from the markers a page carries.
// Owner is checked first so a viewer replying on their own video is
// shown as the owner.
func ClassifyPoster(isOwner, isSelf bool) PosterType {
	switch {
	case isOwner:
		return PosterOwner
	case isSelf:
		return PosterSelf
	default:
		return PosterNormal
	}
}
