package exhibitor

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"sort"
	"strings"
)

const clusterListPath = "/exhibitor/v1/cluster/list"

// Client queries an Exhibitor sidecar for the current ensemble membership.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type clusterListResponse struct {
	Servers *[]string `json:"servers"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// Servers returns the addresses of the current ensemble members, sorted
// ascending. Any failure to reach or parse the endpoint is returned as-is;
// there is no local recovery.
func (c *Client) Servers() ([]string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+clusterListPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exhibitor returned status %d", res.StatusCode)
	}

	resBody, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	var data clusterListResponse
	err = json.Unmarshal(resBody, &data)
	if err != nil {
		return nil, err
	}
	if data.Servers == nil {
		return nil, fmt.Errorf("exhibitor response has no servers field")
	}

	servers := *data.Servers
	sort.Strings(servers)
	return servers, nil
}
