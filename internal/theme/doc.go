// Package theme resolves immutable style bundles for a session and picks the
// card decoration for the client's input capabilities.
//
// Integration example:
//
//	profile := theme.DetectTermProfile(pty.Term)
//	bundle, err := theme.Resolve(theme.VariantMidnight, pty.Term)
//	if err != nil {
//		return err
//	}
//	wrapper := theme.SelectWrapper(theme.Capabilities{Pointer: true, Profile: profile}, bundle, renderer)
//	card := wrapper.Wrap(bundle.Card.Lipgloss(renderer).Render(body))
package theme
