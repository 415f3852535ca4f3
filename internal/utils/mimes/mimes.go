package mimes

const (
	// application
	App_x_www_form_urlencoded = "application/x-www-form-urlencoded" // application/x-www-form-urlencoded
	App_json                  = "application/json"                  // application/json
	App_javascript            = "application/javascript"            // application/javascript

	// text
	Text_html  = "text/html"  // text/html
	Text_plain = "text/plain" // text/plain
	Text_css   = "text/css"   // text/css

	// image
	Image_svg_xml = "image/svg+xml" // image/svg+xml
)
