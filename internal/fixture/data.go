package fixture

import (
	"strings"

	"userdir/internal/directory"
)

func seed(id int, first, last, born, city, state string) directory.User {
	return directory.User{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     strings.ToLower(first+"."+last) + "@x.dummyjson.com",
		BirthDate: born,
		Address:   directory.Address{City: city, State: state, Country: "United States"},
	}
}

// DefaultUsers is the built-in data set served when no fixture file is given.
func DefaultUsers() []directory.User {
	return []directory.User{
		seed(1, "Emily", "Johnson", "1996-5-30", "Phoenix", "Mississippi"),
		seed(2, "Michael", "Williams", "1989-8-10", "Houston", "Alabama"),
		seed(3, "Sophia", "Brown", "1982-11-6", "Washington", "Alabama"),
		seed(4, "James", "Davis", "1979-5-4", "Seattle", "Delaware"),
		seed(5, "Emma", "Miller", "1994-6-13", "Jacksonville", "Virginia"),
		seed(6, "Olivia", "Wilson", "2002-4-20", "Fort Worth", "Colorado"),
		seed(7, "Alexander", "Jones", "1986-10-20", "Indianapolis", "Nebraska"),
		seed(8, "Ava", "Taylor", "1997-8-25", "Fort Worth", "Colorado"),
		seed(9, "Ethan", "Martinez", "1991-2-12", "San Francisco", "Wyoming"),
		seed(10, "Isabella", "Anderson", "1999-8-28", "Denver", "Ohio"),
		seed(11, "Liam", "Garcia", "1974-1-21", "Houston", "Alabama"),
		seed(12, "Mia", "Rodriguez", "1977-7-21", "Phoenix", "Mississippi"),
		seed(13, "Noah", "Hernandez", "1968-8-14", "Washington", "Alabama"),
		seed(14, "Charlotte", "Lopez", "1992-9-2", "Seattle", "Delaware"),
		seed(15, "William", "Gonzalez", "1970-12-5", "Denver", "Ohio"),
		seed(16, "Avery", "Perez", "1975-3-4", "Jacksonville", "Virginia"),
		seed(17, "Evelyn", "Sanchez", "1971-2-20", "San Francisco", "Wyoming"),
		seed(18, "Logan", "Torres", "1983-7-8", "Indianapolis", "Nebraska"),
		seed(19, "Abigail", "Rivera", "1995-10-29", "Phoenix", "Mississippi"),
		seed(20, "Jackson", "Evans", "1984-11-18", "Houston", "Alabama"),
		seed(21, "John", "Carter", "1990-1-1", "Paris", "Texas"),
		seed(22, "Johnny", "Mitchell", "1985-5-5", "Paris", "Texas"),
		seed(23, "Johnathan", "Reed", "1993-3-17", "Seattle", "Delaware"),
	}
}
