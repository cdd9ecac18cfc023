package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Dashboard server base URL")
	city := flag.String("city", "Paris", "City to look up")
	flag.Parse()

	fmt.Println("Weather Dashboard API Client Example")
	fmt.Println("====================================")

	client := &http.Client{Timeout: 30 * time.Second}

	fmt.Printf("\nLooking up %s...\n", *city)
	body, err := call(client, http.MethodGet, fmt.Sprintf("%s/api/weather/%s", *baseURL, url.PathEscape(*city)))
	if err != nil {
		fmt.Printf("Error fetching weather: %v\n", err)
		os.Exit(1)
	}

	var snapshot struct {
		Current struct {
			View *struct {
				Title       string `json:"title"`
				Temperature string `json:"temperature"`
				Description string `json:"description"`
			} `json:"view"`
			Error string `json:"error"`
		} `json:"current"`
		AirQuality struct {
			View *struct {
				Level string `json:"level"`
			} `json:"view"`
			Error string `json:"error"`
		} `json:"airQuality"`
	}
	json.Unmarshal(body, &snapshot)

	if v := snapshot.Current.View; v != nil {
		fmt.Printf("%s: %s, %s\n", v.Title, v.Temperature, v.Description)
	}
	if v := snapshot.AirQuality.View; v != nil {
		fmt.Printf("Air quality: %s\n", v.Level)
	} else if snapshot.AirQuality.Error != "" {
		fmt.Printf("Air quality: %s\n", snapshot.AirQuality.Error)
	}

	// Switch units; the server re-fetches everything for the current city
	fmt.Println("\nToggling units...")
	if _, err := call(client, http.MethodPost, *baseURL+"/api/units/toggle"); err != nil {
		fmt.Printf("Error toggling units: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Adding the current city to favorites...")
	favBody, err := call(client, http.MethodPost, *baseURL+"/api/favorites")
	if err != nil {
		fmt.Printf("Error adding favorite: %v\n", err)
		os.Exit(1)
	}
	printJSON("Favorites", favBody)

	recentsBody, err := call(client, http.MethodGet, *baseURL+"/api/recents")
	if err != nil {
		fmt.Printf("Error fetching recents: %v\n", err)
		os.Exit(1)
	}
	printJSON("Recently viewed", recentsBody)
}

// call issues a request and returns the body, treating non-2xx as an error
func call(client *http.Client, method, rawURL string) ([]byte, error) {
	req, err := http.NewRequest(method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		json.Unmarshal(body, &apiErr)
		return nil, fmt.Errorf("%s %s: %d %s", method, rawURL, resp.StatusCode, apiErr.Message)
	}
	return body, nil
}

func printJSON(title string, body []byte) {
	var data interface{}
	json.Unmarshal(body, &data)
	prettyJSON, _ := json.MarshalIndent(data, "", "  ")
	fmt.Printf("\n%s:\n%s\n", title, string(prettyJSON))
}
