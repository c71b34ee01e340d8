/*
DESCRIPTION
  categories.go holds the table of YouTube video categories.

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean)

  This file is part of ytup. ytup is free software: you can
  redistribute it and/or modify it under the terms of the GNU
  General Public License as published by the Free Software
  Foundation, either version 3 of the License, or (at your option)
  any later version.

  ytup is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see <http://www.gnu.org/licenses/>.
*/

package youtube

// Category is a YouTube video category.
type Category struct {
	ID   string
	Name string
}

// categories is ordered by id. YouTube assigns 23 and 34 both to Comedy;
// only 23 is listed.
var categories = []Category{
	{"1", "Film & Animation"},
	{"2", "Autos & Vehicles"},
	{"10", "Music"},
	{"15", "Pets & Animals"},
	{"17", "Sports"},
	{"18", "Short Movies"},
	{"19", "Travel & Events"},
	{"20", "Gaming"},
	{"21", "Videoblogging"},
	{"22", "People & Blogs"},
	{"23", "Comedy"},
	{"24", "Entertainment"},
	{"25", "News & Politics"},
	{"26", "Howto & Style"},
	{"27", "Education"},
	{"28", "Science & Technology"},
	{"29", "Nonprofits & Activism"},
	{"30", "Movies"},
	{"31", "Anime/Animation"},
	{"32", "Action/Adventure"},
	{"33", "Classics"},
	{"35", "Documentary"},
	{"36", "Drama"},
	{"37", "Family"},
	{"38", "Foreign"},
	{"39", "Horror"},
	{"40", "Sci-Fi/Fantasy"},
	{"41", "Thriller"},
	{"42", "Shorts"},
	{"43", "Shows"},
	{"44", "Trailers"},
}

// Categories returns the known categories ordered by id.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoryName returns the name of the category with the given id, or the
// empty string if the id is unknown.
func CategoryName(id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// SanitiseCategory checks if the given category ID or name is known,
// and returns its ID if so. It returns the empty string otherwise.
func SanitiseCategory(cat string) string {
	for _, c := range categories {
		if c.ID == cat || c.Name == cat {
			return c.ID
		}
	}
	return ""
}
