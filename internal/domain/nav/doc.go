// Package nav decides which administration sidebar entries a user sees.
//
// Decide is a pure function of Signals. SettingsSidebar describes the tree,
// and Resolve prunes it top-down into renderable Nodes.
package nav
