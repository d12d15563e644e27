package registry

func defaultPostTypes() []PostType {
	return []PostType{
		{
			Name: "post", Label: "Posts", Singular: "Post", Public: true, HasArchive: true,
			ShowInREST: true, RestBase: "posts", MenuIcon: "dashicons-admin-post", Builtin: true,
			Supports: []string{"title", "editor", "author", "thumbnail", "excerpt", "trackbacks", "custom-fields", "comments", "revisions", "post-formats"},
		},
		{
			Name: "page", Label: "Pages", Singular: "Page", Public: true, Hierarchical: true,
			ShowInREST: true, RestBase: "pages", MenuIcon: "dashicons-admin-page", Builtin: true,
			Supports: []string{"title", "editor", "author", "thumbnail", "page-attributes", "custom-fields", "comments", "revisions"},
		},
		{
			Name: "attachment", Label: "Media", Singular: "Media", Public: true,
			ShowInREST: true, RestBase: "media", MenuIcon: "dashicons-admin-media", Builtin: true,
			Supports: []string{"title", "author", "comments"},
		},
		{Name: "revision", Label: "Revisions", Singular: "Revision", Builtin: true, Supports: []string{"author"}},
		{Name: "nav_menu_item", Label: "Navigation Menu Items", Singular: "Navigation Menu Item", Builtin: true},
	}
}

func defaultTaxonomies() []Taxonomy {
	return []Taxonomy{
		{
			Name: "category", Label: "Categories", Singular: "Category", Public: true, Hierarchical: true,
			ShowInREST: true, RestBase: "categories", ObjectTypes: []string{"post"}, Builtin: true,
		},
		{
			Name: "post_tag", Label: "Tags", Singular: "Tag", Public: true,
			ShowInREST: true, RestBase: "tags", ObjectTypes: []string{"post"}, Builtin: true,
		},
		{Name: "nav_menu", Label: "Navigation Menus", Singular: "Navigation Menu", ObjectTypes: []string{"nav_menu_item"}, Builtin: true},
		{Name: "post_format", Label: "Formats", Singular: "Format", Public: true, ObjectTypes: []string{"post"}, Builtin: true},
	}
}

func defaultRoles() []Role {
	subscriber := capSet("read", "level_0")
	contributor := union(subscriber, capSet("edit_posts", "delete_posts", "level_1"))
	author := union(contributor, capSet(
		"upload_files", "publish_posts", "edit_published_posts", "delete_published_posts", "level_2",
	))
	editor := union(author, capSet(
		"moderate_comments", "manage_categories", "manage_links", "unfiltered_html",
		"edit_others_posts", "edit_pages", "edit_others_pages", "edit_published_pages",
		"publish_pages", "delete_pages", "delete_others_pages", "delete_published_pages",
		"delete_others_posts", "delete_private_posts", "edit_private_posts", "read_private_posts",
		"delete_private_pages", "edit_private_pages", "read_private_pages", "level_7",
	))
	administrator := union(editor, capSet(
		"switch_themes", "edit_themes", "activate_plugins", "edit_plugins", "edit_users",
		"edit_files", "manage_options", "import", "list_users", "create_users", "delete_users",
		"promote_users", "remove_users", "edit_theme_options", "install_plugins", "update_plugins",
		"delete_plugins", "install_themes", "update_themes", "delete_themes", "update_core",
		"export", "customize", "edit_dashboard", "level_10",
	))

	return []Role{
		{Name: "administrator", DisplayName: "Administrator", Capabilities: administrator},
		{Name: "editor", DisplayName: "Editor", Capabilities: editor},
		{Name: "author", DisplayName: "Author", Capabilities: author},
		{Name: "contributor", DisplayName: "Contributor", Capabilities: contributor},
		{Name: "subscriber", DisplayName: "Subscriber", Capabilities: subscriber},
	}
}

func defaultSidebars() []Sidebar {
	return []Sidebar{
		{ID: "sidebar-1", Name: "Blog Sidebar", Description: "Widgets shown beside posts and pages."},
		{ID: "footer-1", Name: "Footer", Description: "Widgets shown in the site footer."},
	}
}

func defaultWidgetTypes() []WidgetType {
	return []WidgetType{
		{IDBase: "archives", Name: "Archives", Description: "A monthly archive of your site's posts."},
		{IDBase: "block", Name: "Block", Description: "A widget containing a block."},
		{IDBase: "calendar", Name: "Calendar", Description: "A calendar of your site's posts."},
		{IDBase: "categories", Name: "Categories", Description: "A list or dropdown of categories."},
		{IDBase: "custom_html", Name: "Custom HTML", Description: "Arbitrary HTML code."},
		{IDBase: "media_image", Name: "Image", Description: "Displays an image."},
		{IDBase: "meta", Name: "Meta", Description: "Login, RSS and WordPress.org links."},
		{IDBase: "nav_menu", Name: "Navigation Menu", Description: "Add a navigation menu to your sidebar."},
		{IDBase: "pages", Name: "Pages", Description: "A list of your site's pages."},
		{IDBase: "recent-comments", Name: "Recent Comments", Description: "Your site's most recent comments."},
		{IDBase: "recent-posts", Name: "Recent Posts", Description: "Your site's most recent posts."},
		{IDBase: "rss", Name: "RSS", Description: "Entries from any RSS or Atom feed."},
		{IDBase: "search", Name: "Search", Description: "A search form for your site."},
		{IDBase: "tag_cloud", Name: "Tag Cloud", Description: "A cloud of your most used tags."},
		{IDBase: "text", Name: "Text", Description: "Arbitrary text."},
	}
}

func defaultMenuLocations() []MenuLocation {
	return []MenuLocation{
		{Slug: "primary", Description: "Primary Menu"},
		{Slug: "footer", Description: "Footer Menu"},
	}
}

func defaultImageSizes() []ImageSize {
	return []ImageSize{
		{Name: "thumbnail", Width: 150, Height: 150, Crop: true},
		{Name: "medium", Width: 300, Height: 300},
		{Name: "medium_large", Width: 768},
		{Name: "large", Width: 1024, Height: 1024},
	}
}

func defaultSchedules() []Schedule {
	return []Schedule{
		{Name: "hourly", Display: "Once Hourly", Interval: 3600},
		{Name: "twicedaily", Display: "Twice Daily", Interval: 43200},
		{Name: "daily", Display: "Once Daily", Interval: 86400},
		{Name: "weekly", Display: "Once Weekly", Interval: 604800},
	}
}
