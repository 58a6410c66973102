package main

import "strings"

// maxTopicLength is arbitrary: low enough that a TOPIC reply never risks
// truncation at the 512-byte line limit once framed.
const maxTopicLength = 300

// maxChannelLength is RFC 2812's channel name limit.
const maxChannelLength = 50

// canonicalizeNick converts a nick to the form used for uniqueness
// comparisons and directory indexing. Does not validate or trim.
func canonicalizeNick(n string) string {
	return strings.ToLower(n)
}

// isValidNick reports whether a nick matches RFC 2812's grammar
// (restricted to ASCII): the first character must be a letter or one of
// "[]\^_`{|}"; subsequent characters may additionally be digits or '-'.
func isValidNick(maxLen int, n string) bool {
	if len(n) == 0 || len(n) > maxLen {
		return false
	}

	for i, char := range n {
		if isLetter(char) || isNickSpecial(char) {
			continue
		}
		if i > 0 && (isDigit(char) || char == '-') {
			continue
		}
		return false
	}

	return true
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isNickSpecial(c rune) bool {
	switch c {
	case '[', ']', '\\', '^', '_', '`', '{', '|', '}':
		return true
	default:
		return false
	}
}

// isValidUser reports whether a USER-command username is acceptable.
func isValidUser(maxLen int, u string) bool {
	if len(u) == 0 || len(u) > maxLen {
		return false
	}

	for _, char := range u {
		if (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') {
			continue
		}
		return false
	}

	return true
}

// isValidChannel reports whether c (already canonicalized) is a
// well-formed channel name. Only the "#" prefix is supported; this core
// doesn't implement "&", "+", or "!" channel types.
func isValidChannel(c string) bool {
	if len(c) == 0 || len(c) > maxChannelLength {
		return false
	}

	for i, char := range c {
		if i == 0 {
			if char == '#' {
				continue
			}
			return false
		}

		if (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') {
			continue
		}

		return false
	}

	return true
}

// truncateTopic shortens a topic to maxTopicLength, the way TOPIC's
// handler guards against oversized input instead of rejecting it outright.
func truncateTopic(topic string) string {
	if len(topic) <= maxTopicLength {
		return topic
	}
	return topic[:maxTopicLength]
}
