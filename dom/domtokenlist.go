package dom

import (
	"fmt"
	"strings"
)

// validateToken checks a token the way DOMTokenList methods require.
func validateToken(token string) error {
	if token == "" {
		return ErrSyntax("The token provided must not be empty.")
	}
	if strings.ContainsAny(token, " \t\n\r\f") {
		return ErrInvalidCharacter(fmt.Sprintf("The token provided ('%s') contains HTML space characters, which are not valid in tokens.", token))
	}
	return nil
}

// DOMTokenList represents a set of space-separated tokens stored in an
// attribute. It is used for Element.classList.
type DOMTokenList struct {
	element  *Element
	attrName string
}

func newDOMTokenList(element *Element, attrName string) *DOMTokenList {
	return &DOMTokenList{
		element:  element,
		attrName: attrName,
	}
}

// tokens returns the current tokens, deduplicated, preserving order.
func (dtl *DOMTokenList) tokens() []string {
	value := dtl.element.GetAttribute(dtl.attrName)
	if value == "" {
		return nil
	}
	seen := make(map[string]bool)
	var result []string
	for _, token := range strings.Fields(value) {
		if !seen[token] {
			seen[token] = true
			result = append(result, token)
		}
	}
	return result
}

func (dtl *DOMTokenList) setTokens(tokens []string) {
	if len(tokens) == 0 && !dtl.element.HasAttribute(dtl.attrName) {
		return
	}
	dtl.element.SetAttribute(dtl.attrName, strings.Join(tokens, " "))
}

// Length returns the number of tokens.
func (dtl *DOMTokenList) Length() int {
	return len(dtl.tokens())
}

// Item returns the token at index, or "" when out of range.
func (dtl *DOMTokenList) Item(index int) string {
	tokens := dtl.tokens()
	if index < 0 || index >= len(tokens) {
		return ""
	}
	return tokens[index]
}

// Contains returns true if the token is in the list.
func (dtl *DOMTokenList) Contains(token string) bool {
	for _, t := range dtl.tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add adds the given tokens, skipping any already present.
func (dtl *DOMTokenList) Add(tokens ...string) error {
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
	}
	current := dtl.tokens()
	for _, t := range tokens {
		if !containsToken(current, t) {
			current = append(current, t)
		}
	}
	dtl.setTokens(current)
	return nil
}

// Remove removes the given tokens.
func (dtl *DOMTokenList) Remove(tokens ...string) error {
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
	}
	var kept []string
	for _, t := range dtl.tokens() {
		if !containsToken(tokens, t) {
			kept = append(kept, t)
		}
	}
	dtl.setTokens(kept)
	return nil
}

// Toggle removes token if present and adds it otherwise. It returns whether
// the token is present afterwards.
func (dtl *DOMTokenList) Toggle(token string) (bool, error) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	if dtl.Contains(token) {
		return false, dtl.Remove(token)
	}
	return true, dtl.Add(token)
}

// Replace replaces oldToken with newToken in place. It returns false when
// oldToken is not present.
func (dtl *DOMTokenList) Replace(oldToken, newToken string) (bool, error) {
	if err := validateToken(oldToken); err != nil {
		return false, err
	}
	if err := validateToken(newToken); err != nil {
		return false, err
	}
	tokens := dtl.tokens()
	if !containsToken(tokens, oldToken) {
		return false, nil
	}
	var result []string
	for _, t := range tokens {
		switch {
		case t == oldToken:
			if !containsToken(result, newToken) {
				result = append(result, newToken)
			}
		case t == newToken:
			if !containsToken(result, newToken) {
				result = append(result, t)
			}
		default:
			result = append(result, t)
		}
	}
	dtl.setTokens(result)
	return true, nil
}

// Value returns the serialized token list.
func (dtl *DOMTokenList) Value() string {
	return strings.Join(dtl.tokens(), " ")
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
