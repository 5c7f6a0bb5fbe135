// Package nav composes the dynamic parts of the ProjectMan navigation bar.
//
// At page load a Composer fetches the AppConfig document from /api/config
// once. The brand label takes the configured name. In hub mode with at
// least one project, a project selector is appended to the first nav list:
// its first option is the hub view, followed by one option per project.
// Choosing an option rewrites the project query parameter and navigates.
//
// The composition is optional. When the fetch fails the page keeps its
// defaults and nothing is reported to the user.
package nav
